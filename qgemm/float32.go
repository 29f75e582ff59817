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
	"github.com/ajroetker/go-qgemm/quantize"
	"github.com/ajroetker/go-qgemm/workerpool"
)

// GemmFloat32 multiplies float32 matrices through the quantized integer
// path: both operands are dynamically quantized to uint8, the integer
// product is computed exactly, and the result is rescaled by the product
// of the two scales. a is m x k, b is k x n, both dense row-major; c
// receives m x n.
//
// With a non-nil pool the integer product runs on parallel M-strips.
// Accuracy is that of 8-bit dynamic quantization; use it where the inputs
// tolerate roughly 1% relative error.
func GemmFloat32(pool workerpool.Executor, c, a, b []float32, m, n, k int) {
	pa := quantize.ChooseParamsFor(a[:m*k])
	pb := quantize.ChooseParamsFor(b[:k*n])

	qa := make([]uint8, m*k)
	qb := make([]uint8, k*n)
	quantize.QuantizeU8(qa, a[:m*k], pa)
	quantize.QuantizeU8(qb, b[:k*n], pb)

	ci := make([]int32, m*n)
	qp := QuantParams{ZeroPointA: pa.ZeroPoint, ZeroPointB: pb.ZeroPoint}
	if pool != nil {
		ParallelGemm(pool, ci, qa, qb, m, n, k, k, n, n, qp)
	} else {
		Gemm(ci, qa, qb, m, n, k, k, n, n, qp)
	}

	rescale := pa.Scale * pb.Scale
	for i, v := range ci[:m*n] {
		c[i] = float32(v) * rescale
	}
}
