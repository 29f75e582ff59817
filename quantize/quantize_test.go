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

package quantize

import (
	"math"
	"math/rand"
	"testing"
)

func TestChooseParamsCoversZero(t *testing.T) {
	cases := []struct {
		name           string
		minVal, maxVal float32
	}{
		{"positive_only", 0.5, 4},
		{"negative_only", -4, -0.5},
		{"mixed", -1, 3},
		{"degenerate", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := ChooseParams(tc.minVal, tc.maxVal)
			if p.Scale <= 0 {
				t.Fatalf("scale = %f, want > 0", p.Scale)
			}
			// Zero must map onto an exact code.
			var q [1]uint8
			QuantizeU8(q[:], []float32{0}, p)
			var x [1]float32
			DequantizeU8(x[:], q[:], p)
			if x[0] != 0 {
				t.Errorf("zero round trip: got %f", x[0])
			}
		})
	}
}

func TestQuantizeRoundTripError(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	x := make([]float32, 1000)
	for i := range x {
		x[i] = rng.Float32()*20 - 5
	}

	p := ChooseParamsFor(x)
	q := make([]uint8, len(x))
	QuantizeU8(q, x, p)
	back := make([]float32, len(x))
	DequantizeU8(back, q, p)

	// Half a step in the interior; the zero-point rounding can cost up to
	// one extra half step at the range ends, so allow one full step.
	step := float64(p.Scale)
	for i := range x {
		if err := math.Abs(float64(back[i] - x[i])); err > step+1e-6 {
			t.Errorf("index %d: x=%f back=%f err=%f > %f", i, x[i], back[i], err, step)
		}
	}
}

func TestQuantizeClamps(t *testing.T) {
	p := Params{Scale: 1, ZeroPoint: 128}
	q := make([]uint8, 2)
	QuantizeU8(q, []float32{-1000, 1000}, p)
	if q[0] != 0 {
		t.Errorf("low clamp: got %d, want 0", q[0])
	}
	if q[1] != 255 {
		t.Errorf("high clamp: got %d, want 255", q[1])
	}
}

func TestMinMax(t *testing.T) {
	if lo, hi := MinMax(nil); lo != 0 || hi != 0 {
		t.Errorf("empty: got (%f, %f)", lo, hi)
	}
	lo, hi := MinMax([]float32{3, -2, 7, 0.5})
	if lo != -2 || hi != 7 {
		t.Errorf("got (%f, %f), want (-2, 7)", lo, hi)
	}
}
