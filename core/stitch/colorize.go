// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package stitch

import (
	"image"
	"math"
)

// ColorTransform - 4x4 matrix applied to an [r g b a] row vector, rows
// indexed by input channel, columns by output channel
type ColorTransform [4][4]float64

// Fluorescence channel colourings
var (
	// Hoechst nuclear stain, blueish
	THoechst = ColorTransform{
		{0.2, 0.0, 0.0, 0.2},
		{0.0, 0.2, 0.0, 0.2},
		{0.0, 0.0, 1.0, 1.0},
		{0.0, 0.0, 0.0, 0.0},
	}
	// AlexaFluor 594, orangeish
	TAF594 = ColorTransform{
		{1.0, 0.0, 0.0, 1.0},
		{0.0, 0.6, 0.0, 0.6},
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0},
	}
)

// Primary colours
var (
	TRed = ColorTransform{
		{1.0, 0.0, 0.0, 1.0},
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0},
	}
	TGreen = ColorTransform{
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 1.0, 0.0, 1.0},
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0},
	}
	TBlue = ColorTransform{
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 1.0, 1.0},
		{0.0, 0.0, 0.0, 0.0},
	}
	TYellow = ColorTransform{
		{1.0, 0.0, 0.0, 1.0},
		{0.0, 1.0, 0.0, 1.0},
		{0.0, 0.0, 0.0, 0.0},
		{0.0, 0.0, 0.0, 0.0},
	}
)

// Colorize - maps a grayscale channel image into RGBA through the colour
// transform. The gray value feeds r, g and b equally with full alpha, the
// transformed channels are then rescaled jointly so the brightest channel
// of the brightest pixel hits full intensity.
func Colorize(gray *image.Gray, t ColorTransform) *image.RGBA {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	transformed := make([]float64, w*h*4)
	lo := math.Inf(1)
	hi := math.Inf(-1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y) / 255
			in := [4]float64{v, v, v, 1}

			base := (y*w + x) * 4
			for j := 0; j < 4; j++ {
				var sum float64
				for i := 0; i < 4; i++ {
					sum += in[i] * t[i][j]
				}
				transformed[base+j] = sum
				if sum < lo {
					lo = sum
				}
				if sum > hi {
					hi = sum
				}
			}
		}
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, v := range transformed {
		out.Pix[i] = uint8(math.Round((v - lo) / span * 255))
	}
	return out
}
