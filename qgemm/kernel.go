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

// rowTileHeights is the fixed descending set of kernel row-tile heights.
// One generic tile routine serves every height; the table only selects how
// many accumulator rows share each B-group read.
var rowTileHeights = [...]int{4, 3, 2, 1}

// BaseKernel computes one row tile of the quantized matrix product from
// packed operands.
//
// It selects the largest tile height <= countM from rowTileHeights,
// computes that many output rows across all of countN, and returns the
// number of rows handled so the caller's outer loop can advance.
//
// packedA must point at the first of the rows to compute within a buffer
// produced by BasePackA; packedB is a full panel from BasePackB. Both must
// agree on packedCountK (see PackedCountK). For every K-quad the kernel
// broadcasts four A bytes per active row and reduces them against the
// 16-column B group with the widening bytes-to-dwords multiply-add chain.
//
// After the K loop each output element receives the correction terms:
//
//	C[i,j] = acc[i,j] + rowSums[i] + colSums[j] + depthValue
//
// where the caller pre-scales rowSums by the negated B zero point, colSums
// by the negated A zero point, and supplies depthValue = countK*zpA*zpB.
// With zeroMode true the tile is stored, otherwise accumulated in place at
// ldc-strided offsets. Only [0,countM) x [0,countN) is written; partial
// column blocks compute against zero-padded packed data and store the valid
// columns.
func BaseKernel(packedA, packedB []uint8, c []int32, packedCountK, countM, countN, ldc int, rowSums, colSums []int32, depthValue int32, zeroMode bool) int {
	height := 1
	for _, h := range rowTileHeights {
		if h <= countM {
			height = h
			break
		}
	}

	const groupBytes = ColBlock * QuadK
	aStride := packedCountK * QuadK
	blockStride := packedCountK * groupBytes
	lanes := simd.MaxLanes[uint8]()
	bl := min(lanes, groupBytes)
	lanes32 := bl / QuadK

	var acc [RowTileMax][ColBlock]int32
	for nb := 0; nb < countN; nb += ColBlock {
		validCols := min(ColBlock, countN-nb)
		block := packedB[(nb/ColBlock)*blockStride:]

		for i := 0; i < height; i++ {
			for j := range acc[i] {
				acc[i][j] = 0
			}
		}

		for q := 0; q < packedCountK; q++ {
			group := block[q*groupBytes : q*groupBytes+groupBytes]
			for i := 0; i < height; i++ {
				aVec := simd.RepeatQuad(packedA[i*aStride+q*QuadK:])
				for o := 0; o < groupBytes; o += bl {
					prod := simd.MulQuadSumI8(aVec, simd.Load(group[o:o+bl]))
					av := simd.Load(acc[i][o/QuadK : o/QuadK+lanes32])
					simd.Store(simd.Add(av, prod), acc[i][o/QuadK:])
				}
			}
		}

		// Fold in the zero-point correction terms and write out.
		for i := 0; i < height; i++ {
			rowConst := simd.Set(rowSums[i] + depthValue)
			cRow := c[i*ldc+nb:]
			j := 0
			for ; j+lanes32 <= validCols; j += lanes32 {
				v := simd.Add(simd.Load(acc[i][j:j+lanes32]), rowConst)
				v = simd.Add(v, simd.Load(colSums[nb+j:nb+j+lanes32]))
				if !zeroMode {
					v = simd.Add(v, simd.Load(cRow[j:j+lanes32]))
				}
				simd.Store(v, cRow[j:])
			}
			for ; j < validCols; j++ {
				v := acc[i][j] + rowSums[i] + colSums[nb+j] + depthValue
				if zeroMode {
					cRow[j] = v
				} else {
					cRow[j] += v
				}
			}
		}
	}

	return height
}
