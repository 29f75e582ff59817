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
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"testing"

	"github.com/ajroetker/go-qgemm/workerpool"
)

// referenceGemm computes the full quantized product with scalar loops,
// interpreting B per QuantParams exactly as Gemm's contract states.
func referenceGemm(a, b []uint8, m, n, k, lda, ldb int, qp QuantParams) []int32 {
	out := make([]int32, m*n)
	zpA := int32(qp.ZeroPointA)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum int32
			for kk := 0; kk < k; kk++ {
				av := int32(a[i*lda+kk]) - zpA
				var bv int32
				if qp.BIsSigned {
					bv = int32(int8(b[kk*ldb+j])) - int32(int8(qp.ZeroPointB))
				} else {
					bv = int32(b[kk*ldb+j]) - int32(qp.ZeroPointB)
				}
				sum += av * bv
			}
			out[i*n+j] = sum
		}
	}
	return out
}

func TestGemmMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(21))

	// Dimensions straddling the panel sizes exercise the multi-panel K
	// accumulation and the pack-once-per-panel paths.
	testCases := []struct {
		m, n, k int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{5, 17, 33},
		{16, 32, 48},
		{17, 33, 49},
		{panelM, panelN, panelK},
		{panelM + 1, panelN + 1, panelK + 1},
		{3, panelN + 7, 2*panelK + 5},
		{2*panelM + 3, 19, panelK - 1},
	}

	for _, signedB := range []bool{false, true} {
		for _, tc := range testCases {
			t.Run(fmt.Sprintf("signed%v_%dx%dx%d", signedB, tc.m, tc.n, tc.k), func(t *testing.T) {
				a := make([]uint8, tc.m*tc.k)
				b := make([]uint8, tc.k*tc.n)
				for i := range a {
					a[i] = uint8(rng.Intn(256))
				}
				for i := range b {
					b[i] = uint8(rng.Intn(256))
				}
				qp := QuantParams{
					ZeroPointA: uint8(rng.Intn(256)),
					ZeroPointB: uint8(rng.Intn(256)),
					BIsSigned:  signedB,
				}

				c := make([]int32, tc.m*tc.n)
				Gemm(c, a, b, tc.m, tc.n, tc.k, tc.k, tc.n, tc.n, qp)

				ref := referenceGemm(a, b, tc.m, tc.n, tc.k, tc.k, tc.n, qp)
				for i := range c {
					if c[i] != ref[i] {
						t.Fatalf("index %d: got %d, ref %d", i, c[i], ref[i])
					}
				}
			})
		}
	}
}

func TestGemmSmallKnownValues(t *testing.T) {
	// [[1 2] [3 4]] x [[5 6] [7 8]] with zero points at the encoding of 0.
	a := []uint8{1, 2, 3, 4}
	b := []uint8{5, 6, 7, 8}
	c := make([]int32, 4)
	Gemm(c, a, b, 2, 2, 2, 2, 2, 2, QuantParams{})

	want := []int32{19, 22, 43, 50}
	for i := range want {
		if c[i] != want[i] {
			t.Errorf("c[%d] = %d, want %d", i, c[i], want[i])
		}
	}
}

func TestGemmZeroK(t *testing.T) {
	c := []int32{5, 6, 7, 8, 9, 10}
	Gemm(c, nil, nil, 2, 3, 0, 0, 0, 3, QuantParams{ZeroPointA: 3, ZeroPointB: 200})
	for i, v := range c {
		if v != 0 {
			t.Errorf("c[%d] = %d, want 0", i, v)
		}
	}
}

func TestGemmStridedOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	m, n, k, ldc := 4, 5, 6, 9

	a := make([]uint8, m*k)
	b := make([]uint8, k*n)
	for i := range a {
		a[i] = uint8(rng.Intn(256))
	}
	for i := range b {
		b[i] = uint8(rng.Intn(256))
	}
	qp := QuantParams{ZeroPointA: 100, ZeroPointB: 50}

	c := make([]int32, m*ldc)
	for i := range c {
		c[i] = -1
	}
	Gemm(c, a, b, m, n, k, k, n, ldc, qp)

	ref := referenceGemm(a, b, m, n, k, k, n, qp)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if c[i*ldc+j] != ref[i*n+j] {
				t.Errorf("c[%d,%d] = %d, ref %d", i, j, c[i*ldc+j], ref[i*n+j])
			}
		}
		for j := n; j < ldc; j++ {
			if c[i*ldc+j] != -1 {
				t.Errorf("c[%d,%d] overwritten: %d", i, j, c[i*ldc+j])
			}
		}
	}
}

func TestParallelGemmMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	pool := workerpool.New(runtime.GOMAXPROCS(0))
	defer pool.Close()

	for _, m := range []int{1, 7, panelM + 9, 3 * panelM} {
		t.Run(fmt.Sprintf("m%d", m), func(t *testing.T) {
			n, k := 37, 53
			a := make([]uint8, m*k)
			b := make([]uint8, k*n)
			for i := range a {
				a[i] = uint8(rng.Intn(256))
			}
			for i := range b {
				b[i] = uint8(rng.Intn(256))
			}
			qp := QuantParams{ZeroPointA: 17, ZeroPointB: 250, BIsSigned: true}

			serial := make([]int32, m*n)
			Gemm(serial, a, b, m, n, k, k, n, n, qp)

			parallel := make([]int32, m*n)
			ParallelGemm(pool, parallel, a, b, m, n, k, k, n, n, qp)

			for i := range serial {
				if serial[i] != parallel[i] {
					t.Fatalf("index %d: serial %d, parallel %d", i, serial[i], parallel[i])
				}
			}
		})
	}
}

func TestGemmFloat32Approximates(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	m, n, k := 9, 14, 31

	a := make([]float32, m*k)
	b := make([]float32, k*n)
	for i := range a {
		a[i] = rng.Float32()*4 - 2
	}
	for i := range b {
		b[i] = rng.Float32()*4 - 2
	}

	c := make([]float32, m*n)
	GemmFloat32(nil, c, a, b, m, n, k)

	// Worst-case absolute tolerance: each of the k terms carries up to
	// scale/2 rounding error on both operands over the [-2, 2) range.
	const tol = 1.0
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var want float64
			for kk := 0; kk < k; kk++ {
				want += float64(a[i*k+kk]) * float64(b[kk*n+j])
			}
			got := float64(c[i*n+j])
			if math.Abs(got-want) > tol {
				t.Errorf("c[%d,%d] = %f, want %f", i, j, got, want)
			}
		}
	}
}

func BenchmarkGemm(b *testing.B) {
	rng := rand.New(rand.NewSource(25))
	m, n, k := 256, 256, 256

	a := make([]uint8, m*k)
	bm := make([]uint8, k*n)
	for i := range a {
		a[i] = uint8(rng.Intn(256))
	}
	for i := range bm {
		bm[i] = uint8(rng.Intn(256))
	}
	c := make([]int32, m*n)
	qp := QuantParams{ZeroPointA: 128, ZeroPointB: 128}

	b.SetBytes(int64(m * k * n))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Gemm(c, a, bm, m, n, k, k, n, n, qp)
	}
}
