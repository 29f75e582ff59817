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

import "github.com/ajroetker/go-qgemm/simd"

// BasePackB packs a panel of the RHS matrix (B) into interleaved column
// blocks and computes per-column byte sums.
//
// Input B is countK x countN bytes in row-major order with row stride ldb.
// Columns are processed in blocks of ColBlock; within a block, each group of
// QuadK source rows is transposed so the four K-bytes of every column are
// contiguous, giving one ColBlock*QuadK-byte group per (block, quad) that
// the kernel reads as 16 lanes of 4-byte operands.
//
// When signedB is false the source holds unsigned bytes but the kernel's
// multiply-add treats B as signed, so every data byte is XORed with 0x80
// (equivalent to subtracting 128). The caller compensates by offsetting the
// B zero point by 128 in the correction terms. Column sums are accumulated
// from the representation actually stored:
//
//	colSums[j] = sum_{k < countK} effective(B[k,j])
//
// where effective applies the optional flip. Partial quads and partial
// column blocks are padded with raw zero bytes (not the flipped zero), so
// padding contributes nothing to colSums or to kernel products (the matching
// A positions are zero-padded too).
//
// PRECONDITIONS: len(dst) >= PackedBSize(countN, countK),
// len(colSums) >= countN.
func BasePackB(dst, src []uint8, ldb, countN, countK int, colSums []int32, signedB bool) {
	quads := PackedCountK(countK)
	const groupBytes = ColBlock * QuadK
	blockStride := quads * groupBytes
	lanes := simd.MaxLanes[uint8]()
	ones := simd.Set[uint8](1)
	flip := simd.Set[uint8](signFlip)

	for nb := 0; nb < countN; nb += ColBlock {
		validCols := min(ColBlock, countN-nb)
		block := dst[(nb/ColBlock)*blockStride:]
		var colAcc [ColBlock]int32

		for q := 0; q < quads; q++ {
			// Gather QuadK source rows of this column block into
			// zero-initialized scratch rows; K-overrun rows stay zero.
			var rows [QuadK][ColBlock]uint8
			limit := min(QuadK, countK-q*QuadK)
			for r := 0; r < limit; r++ {
				srcRow := src[(q*QuadK+r)*ldb+nb:]
				if validCols == ColBlock {
					v := simd.Load(srcRow[:ColBlock])
					if !signedB {
						v = simd.Xor(v, flip)
					}
					simd.Store(v, rows[r][:])
				} else {
					// Partial block: flip only real data so the
					// zero padding stays raw zero.
					for c := 0; c < validCols; c++ {
						bv := srcRow[c]
						if !signedB {
							bv ^= signFlip
						}
						rows[r][c] = bv
					}
				}
			}

			// Interleave: the quad of K-bytes of each column becomes
			// contiguous in the packed group.
			group := block[q*groupBytes : q*groupBytes+groupBytes]
			for c := 0; c < ColBlock; c++ {
				group[c*QuadK+0] = rows[0][c]
				group[c*QuadK+1] = rows[1][c]
				group[c*QuadK+2] = rows[2][c]
				group[c*QuadK+3] = rows[3][c]
			}

			// Column sums from the stored representation: quads align
			// with columns, so one widening quad multiply-add against
			// ones yields one int32 per column.
			bl := min(lanes, groupBytes)
			for o := 0; o < groupBytes; o += bl {
				sums := simd.MulQuadSumI8(ones, simd.Load(group[o:o+bl]))
				cv := simd.Load(colAcc[o/QuadK : o/QuadK+bl/QuadK])
				simd.Store(simd.Add(cv, sums), colAcc[o/QuadK:])
			}
		}

		copy(colSums[nb:nb+validCols], colAcc[:validCols])
	}
}
