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

// Package quantize implements asymmetric affine uint8 quantization:
//
//	q = clamp(round(x/scale) + zeroPoint, 0, 255)
//	x = (q - zeroPoint) * scale
//
// The parameter chooser always covers zero exactly so that padding and
// sparse regions survive a round trip unchanged.
package quantize

import "math"

// Params holds the affine mapping between float values and uint8 codes.
type Params struct {
	Scale     float32
	ZeroPoint uint8
}

// ChooseParams derives quantization parameters covering [minVal, maxVal].
// The range is first widened to include zero; a degenerate range maps
// everything to the zero point with unit scale.
func ChooseParams(minVal, maxVal float32) Params {
	if minVal > 0 {
		minVal = 0
	}
	if maxVal < 0 {
		maxVal = 0
	}
	if maxVal == minVal {
		return Params{Scale: 1, ZeroPoint: 0}
	}
	scale := (maxVal - minVal) / 255
	zp := math.Round(float64(-minVal / scale))
	if zp < 0 {
		zp = 0
	} else if zp > 255 {
		zp = 255
	}
	return Params{Scale: scale, ZeroPoint: uint8(zp)}
}

// MinMax returns the minimum and maximum of x, or (0, 0) for empty input.
func MinMax(x []float32) (minVal, maxVal float32) {
	if len(x) == 0 {
		return 0, 0
	}
	minVal, maxVal = x[0], x[0]
	for _, v := range x[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// ChooseParamsFor is shorthand for ChooseParams over the range of x.
func ChooseParamsFor(x []float32) Params {
	return ChooseParams(MinMax(x))
}

// QuantizeU8 writes the uint8 codes for x into dst. len(dst) must be at
// least len(x).
func QuantizeU8(dst []uint8, x []float32, p Params) {
	for i, v := range x {
		q := math.Round(float64(v/p.Scale)) + float64(p.ZeroPoint)
		if q < 0 {
			q = 0
		} else if q > 255 {
			q = 255
		}
		dst[i] = uint8(q)
	}
}

// DequantizeU8 writes the float values for the codes in q into dst.
// len(dst) must be at least len(q).
func DequantizeU8(dst []float32, q []uint8, p Params) {
	for i, v := range q {
		dst[i] = (float32(v) - float32(p.ZeroPoint)) * p.Scale
	}
}
