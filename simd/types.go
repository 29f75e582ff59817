// Copyright 2025 go-qgemm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package simd provides portable vector operations with runtime CPU dispatch,
// specialized for the integer arithmetic used by quantized kernels.
//
// Operations are written once against a generic Vec type; the scalar
// implementations in this package are the reference and fallback. Dispatch
// init (dispatch_*.go) selects the vector width from detected CPU features,
// so higher-level code sized with MaxLanes automatically adapts to the
// register width of the host.
//
// Basic usage:
//
//	a := simd.Load(data1)
//	b := simd.Load(data2)
//	simd.Store(simd.Add(a, b), output)
package simd

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Integers | Floats
}

// Vec is a portable vector handle. In base (scalar) mode it wraps a slice;
// SIMD build variants may wrap architecture-specific vector types.
//
// Vec instances should not be created directly; use Load, Set, or Zero.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Data returns the underlying slice representation of the vector.
// This is primarily for testing and should not be used in
// performance-critical code.
func (v Vec[T]) Data() []T {
	return v.data
}
