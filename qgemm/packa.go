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

// packATail is the sub-vector width for K-tails. Tails shorter than this go
// through a zero-initialized stack scratch buffer so the final vector step
// always reads fully-defined zero padding.
const packATail = 16

// BasePackA packs a panel of the LHS matrix (A) into the quad-of-K layout
// consumed by the kernel and computes per-row byte sums.
//
// Input A is countM x countK unsigned bytes in row-major order with row
// stride lda. Bytes are copied unchanged (packing never alters A's values,
// only their layout); each output row is padded to a multiple of QuadK with
// zero bytes. Simultaneously every row is reduced against a constant
// all-ones vector with the widening quad multiply-add, folding to
//
//	rowSums[i] = sum_{k < countK} A[i,k]
//
// exactly, with no contribution from padding.
//
// Rows are processed in groups of four so the reduction carries four
// accumulators through one walk of the K dimension, then singly for the
// remainder.
//
// PRECONDITIONS: len(dst) >= PackedASize(countM, countK),
// len(rowSums) >= countM.
func BasePackA(dst, src []uint8, lda, countM, countK int, rowSums []int32) {
	alignedK := alignUp(countK, QuadK)
	ones := simd.Set[uint8](1)

	m := 0
	for ; m+4 <= countM; m += 4 {
		var srcRows, dstRows [4][]uint8
		var acc [4]simd.Vec[int32]
		var sums [4]int32
		for r := 0; r < 4; r++ {
			srcRows[r] = src[(m+r)*lda:]
			dstRows[r] = dst[(m+r)*alignedK:]
			acc[r] = simd.Zero[int32]()
		}

		lanes := simd.MaxLanes[uint8]()
		k := 0
		// Full-width pass: copy and reduce one vector per row per step.
		for ; k+lanes <= countK; k += lanes {
			for r := 0; r < 4; r++ {
				v := simd.Load(srcRows[r][k : k+lanes])
				simd.Store(v, dstRows[r][k:])
				acc[r] = simd.Add(acc[r], simd.MulQuadSumI8(v, ones))
			}
		}
		for r := 0; r < 4; r++ {
			sums[r] = simd.ReduceSum(acc[r])
		}
		// Sub-vector pass for columns the full width overshoots.
		for ; k+packATail <= countK; k += packATail {
			for r := 0; r < 4; r++ {
				v := simd.Load(srcRows[r][k : k+packATail])
				simd.Store(v, dstRows[r][k:])
				sums[r] += simd.ReduceSum(simd.MulQuadSumI8(v, ones))
			}
		}
		if k < alignedK {
			for r := 0; r < 4; r++ {
				sums[r] += packATailScratch(dstRows[r], srcRows[r], k, countK, alignedK, ones)
			}
		}
		for r := 0; r < 4; r++ {
			rowSums[m+r] = sums[r]
		}
	}

	for ; m < countM; m++ {
		srcRow := src[m*lda:]
		dstRow := dst[m*alignedK:]
		acc := simd.Zero[int32]()

		lanes := simd.MaxLanes[uint8]()
		k := 0
		for ; k+lanes <= countK; k += lanes {
			v := simd.Load(srcRow[k : k+lanes])
			simd.Store(v, dstRow[k:])
			acc = simd.Add(acc, simd.MulQuadSumI8(v, ones))
		}
		sum := simd.ReduceSum(acc)
		for ; k+packATail <= countK; k += packATail {
			v := simd.Load(srcRow[k : k+packATail])
			simd.Store(v, dstRow[k:])
			sum += simd.ReduceSum(simd.MulQuadSumI8(v, ones))
		}
		if k < alignedK {
			sum += packATailScratch(dstRow, srcRow, k, countK, alignedK, ones)
		}
		rowSums[m] = sum
	}
}

// packATailScratch copies the K-tail of one row through a zero-initialized
// scratch buffer sized to one full sub-vector, stores the zero-padded quad
// bytes to dst, and returns the tail's widened sum.
func packATailScratch(dstRow, srcRow []uint8, k, countK, alignedK int, ones simd.Vec[uint8]) int32 {
	var scratch [packATail]uint8
	copy(scratch[:], srcRow[k:countK])
	copy(dstRow[k:alignedK], scratch[:alignedK-k])
	return simd.ReduceSum(simd.MulQuadSumI8(simd.Load(scratch[:]), ones))
}
