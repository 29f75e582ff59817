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

package qgemm

// Packed layout contract shared by the packing transforms and the kernel.
//
// Packed A groups QuadK consecutive K-elements of one row into a quad; each
// row occupies alignUp(countK, QuadK) bytes, padded with zero bytes. Packed
// B groups ColBlock columns; within one (column-block, K-quad) group the
// QuadK bytes of each column are contiguous, so one group is
// ColBlock*QuadK bytes readable as 16 lanes of 4-byte operands.
//
// Padding is always the raw zero byte, never the zero point and never the
// sign-flipped zero. The kernel pairs B padding with zero-padded A quads, so
// padding contributes exactly 0 to products and to the sum buffers.
const (
	// QuadK is the number of K-elements the kernel consumes per inner step.
	QuadK = 4

	// ColBlock is the number of B columns packed and computed together,
	// matching the 16 int8 lanes of one kernel column tile.
	ColBlock = 16

	// RowTileMax is the largest kernel row-tile height.
	RowTileMax = 4

	// signFlip reinterprets an unsigned byte as signed when XORed in
	// (equivalent to subtracting 128).
	signFlip = 0x80
)

// alignUp rounds n up to the next multiple of align.
func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// PackedASize returns the byte capacity PackA requires for a countM x countK
// panel.
func PackedASize(countM, countK int) int {
	return countM * alignUp(countK, QuadK)
}

// PackedBSize returns the byte capacity PackB requires for a countK x countN
// panel.
func PackedBSize(countN, countK int) int {
	return alignUp(countN, ColBlock) * alignUp(countK, QuadK)
}

// PackedCountK returns the number of K-quads in a packed panel of depth
// countK. Both packed operands of one Kernel call must agree on this value.
func PackedCountK(countK int) int {
	return alignUp(countK, QuadK) / QuadK
}
