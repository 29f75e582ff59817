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

// Package qgemm implements quantized 8-bit integer matrix multiplication
// with int32 accumulation, the compute core behind quantized linear and
// convolution operators.
//
// The engine is split into packing transforms and a register-tiled kernel:
//
//   - PackA relayouts a row-major u8 matrix A into quad-of-K padded rows and
//     produces per-row byte sums.
//   - PackB relayouts a row-major u8/s8 matrix B into interleaved
//     16-column blocks and produces per-column byte sums, optionally
//     reinterpreting unsigned operands as signed via an XOR 0x80 flip.
//   - Kernel consumes both packed buffers and computes an output tile,
//     folding in the row-sum, column-sum, and depth correction terms that
//     algebraically expand (a-zpA)*(b-zpB) without subtracting zero points
//     before the multiply.
//
// Gemm and ParallelGemm drive the packing and kernel over cache-sized
// panels; callers that manage their own panel reuse can invoke the packing
// functions and Kernel directly.
//
// All functions are pure transforms over caller-owned memory. Dimension and
// capacity contracts are preconditions, not checked errors; intermediate
// sums must fit in int32 (bounded by countK * 255 * 255 plus correction
// terms for valid inputs).
package qgemm
