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

import (
	"github.com/ajroetker/go-qgemm/simd"
	"github.com/ajroetker/go-qgemm/workerpool"
)

// Panel sizes for the cache-blocked outer loop. One packed B panel
// (panelK x panelN bytes) plus one packed A panel (panelM x panelK bytes)
// stay resident while the kernel sweeps the row tiles, so both should fit
// in L2 alongside the output strip.
const (
	panelM = 64
	panelN = 128
	panelK = 256
)

// QuantParams carries the affine-quantization metadata of the two operands.
//
// ZeroPointB is expressed in the same byte encoding as the B data: for
// signed B it is the two's-complement byte pattern of the signed zero
// point.
type QuantParams struct {
	ZeroPointA uint8
	ZeroPointB uint8
	BIsSigned  bool
}

// Gemm computes the quantized matrix product
//
//	C[i,j] = sum_k (A[i,k] - zpA) * (B[k,j] - zpB)
//
// over u8 A (m x k, stride lda) and u8-or-s8 B (k x n, stride ldb), writing
// int32 C (m x n, stride ldc). It partitions the problem into cache-sized
// panels, packs each panel once, scales the sum buffers by the negated
// opposite zero points, and drives the kernel across row tiles. The first
// K-panel stores, later K-panels accumulate.
//
// The int32 accumulator must not overflow for the given operand ranges and
// k; this is a precondition, not a checked error.
func Gemm(c []int32, a, b []uint8, m, n, k, lda, ldb, ldc int, qp QuantParams) {
	if m <= 0 || n <= 0 {
		return
	}
	zpA := int32(qp.ZeroPointA)
	zpB := adjustedZeroPointB(qp)

	packedA := make([]uint8, PackedASize(min(m, panelM), min(k, panelK)))
	packedB := make([]uint8, PackedBSize(min(n, panelN), min(k, panelK)))
	rowSums := make([]int32, min(m, panelM))
	colSums := make([]int32, min(n, panelN))

	// K loop runs at least once so k == 0 still zeroes C through the
	// kernel's store path.
	k0 := 0
	for {
		kc := min(panelK, k-k0)
		zeroMode := k0 == 0
		depth := int32(kc) * zpA * zpB
		pk := PackedCountK(kc)
		alignedKC := pk * QuadK

		for n0 := 0; n0 < n; n0 += panelN {
			nc := min(panelN, n-n0)
			PackB(packedB, b[k0*ldb+n0:], ldb, nc, kc, colSums, qp.BIsSigned)
			scaleSumBuffer(colSums[:nc], -zpA)

			for m0 := 0; m0 < m; m0 += panelM {
				mc := min(panelM, m-m0)
				PackA(packedA, a[m0*lda+k0:], lda, mc, kc, rowSums)
				scaleSumBuffer(rowSums[:mc], -zpB)

				rows := 0
				for rows < mc {
					handled := Kernel(
						packedA[rows*alignedKC:], packedB,
						c[(m0+rows)*ldc+n0:],
						pk, mc-rows, nc, ldc,
						rowSums[rows:], colSums,
						depth, zeroMode)
					rows += handled
				}
			}
		}

		k0 += panelK
		if k0 >= k {
			break
		}
	}
}

// ParallelGemm runs Gemm over disjoint M-strips on the pool. Strips write
// disjoint regions of C and read-only share B, so no synchronization beyond
// the pool's join is needed.
func ParallelGemm(pool workerpool.Executor, c []int32, a, b []uint8, m, n, k, lda, ldb, ldc int, qp QuantParams) {
	pool.ParallelFor(m, func(m0, m1 int) {
		Gemm(c[m0*ldc:], a[m0*lda:], b, m1-m0, n, k, lda, ldb, ldc, qp)
	})
}

// adjustedZeroPointB maps the caller-supplied B zero point into the signed
// domain the kernel computes in. When B is unsigned, PackB flips every byte
// by 0x80, so the zero point shifts by 128 to match.
func adjustedZeroPointB(qp QuantParams) int32 {
	if qp.BIsSigned {
		return int32(int8(qp.ZeroPointB))
	}
	return int32(qp.ZeroPointB) - 128
}

// scaleSumBuffer multiplies every entry of buf by scale in place.
func scaleSumBuffer(buf []int32, scale int32) {
	sv := simd.Set(scale)
	lanes := simd.MaxLanes[int32]()
	i := 0
	for ; i+lanes <= len(buf); i += lanes {
		simd.Store(simd.Mul(simd.Load(buf[i:i+lanes]), sv), buf[i:])
	}
	for ; i < len(buf); i++ {
		buf[i] *= scale
	}
}
