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

package simd

// Widening multiply-add primitives for 8-bit operands. These model the
// unsigned-times-signed byte multiply-add instruction family (pmaddubsw +
// pmaddwd on x86, sdot/udot on ARM, vpdpbusd with AVX512-VNNI): each group
// of four adjacent byte lanes is reduced to one 32-bit lane.
//
// Unlike the two-step pmaddubsw chain, the reduction here widens every byte
// product to int32 before summing, so no saturating 16-bit intermediate
// exists. This matches the VNNI/udot semantics and keeps results exact for
// the full u8 x s8 operand range.

// MulQuadSumI8 multiplies byte lanes of a (treated as unsigned) with the
// corresponding byte lanes of b (treated as signed) and sums each group of
// four adjacent products into one int32 lane:
//
//	out[i] = sum_{r=0..3} uint(a[4i+r]) * int8(b[4i+r])
//
// Lanes beyond the shorter operand are ignored; a trailing group of fewer
// than four lanes is reduced as-is.
func MulQuadSumI8(a, b Vec[uint8]) Vec[int32] {
	n := len(a.data)
	if len(b.data) < n {
		n = len(b.data)
	}
	groups := (n + 3) / 4
	result := make([]int32, groups)
	for i := 0; i < n; i++ {
		result[i/4] += int32(a.data[i]) * int32(int8(b.data[i]))
	}
	return Vec[int32]{data: result}
}

// RepeatQuad creates a byte vector whose lanes repeat the first four bytes
// of q. This is the broadcast of one packed A quad against a full B group.
// PRECONDITION: len(q) >= 4.
func RepeatQuad(q []uint8) Vec[uint8] {
	n := MaxLanes[uint8]()
	data := make([]uint8, n)
	for i := range data {
		data[i] = q[i&3]
	}
	return Vec[uint8]{data: data}
}
