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

package montage

import (
	"fmt"
	"image"
	"math"
)

// CorrelationResult - the best translation found between two images
type CorrelationResult struct {
	ShiftX int
	ShiftY int
	Score  float64 // normalized cross correlation at the best shift, -1..1
}

// CorrelateTranslation - exhaustive normalized cross correlation over
// integer shifts up to maxShift in each direction. Meant for downscaled
// overlap regions of neighboring tiles, where the true offset is small and a
// subpixel result isn't needed; the montage solver refines from here.
func CorrelateTranslation(fixed *image.Gray, moving *image.Gray, maxShift int) (CorrelationResult, error) {
	if fixed.Bounds().Dx() != moving.Bounds().Dx() || fixed.Bounds().Dy() != moving.Bounds().Dy() {
		return CorrelationResult{}, fmt.Errorf("image sizes differ: %v vs %v", fixed.Bounds(), moving.Bounds())
	}

	w := fixed.Bounds().Dx()
	h := fixed.Bounds().Dy()
	if maxShift >= w/2 || maxShift >= h/2 {
		return CorrelationResult{}, fmt.Errorf("maxShift %v too large for %vx%v images", maxShift, w, h)
	}

	best := CorrelationResult{Score: math.Inf(-1)}

	for dy := -maxShift; dy <= maxShift; dy++ {
		for dx := -maxShift; dx <= maxShift; dx++ {
			score := ncc(fixed, moving, dx, dy, maxShift)
			if score > best.Score {
				best = CorrelationResult{ShiftX: dx, ShiftY: dy, Score: score}
			}
		}
	}

	return best, nil
}

// ncc - normalized cross correlation of the overlap at shift (dx, dy),
// computed over the central region so every shift sees the same pixel count
func ncc(fixed *image.Gray, moving *image.Gray, dx int, dy int, margin int) float64 {
	w := fixed.Bounds().Dx()
	h := fixed.Bounds().Dy()

	var sumF, sumM, sumFF, sumMM, sumFM float64
	n := 0

	for y := margin; y < h-margin; y++ {
		for x := margin; x < w-margin; x++ {
			f := float64(grayAt(fixed, x, y))
			m := float64(grayAt(moving, x-dx, y-dy))
			sumF += f
			sumM += m
			sumFF += f * f
			sumMM += m * m
			sumFM += f * m
			n++
		}
	}

	if n == 0 {
		return -1
	}

	nf := float64(n)
	cov := sumFM - sumF*sumM/nf
	varF := sumFF - sumF*sumF/nf
	varM := sumMM - sumM*sumM/nf
	if varF <= 0 || varM <= 0 {
		return -1
	}

	return cov / math.Sqrt(varF*varM)
}

func grayAt(img *image.Gray, x int, y int) uint8 {
	b := img.Bounds()
	return img.GrayAt(b.Min.X+x, b.Min.Y+y).Y
}
