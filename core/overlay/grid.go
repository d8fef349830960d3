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

package overlay

import (
	"image"
	"sort"
)

// Point - a 2D point in pixel coordinates
type Point struct {
	X float64
	Y float64
}

// GridSpotOptions - parameters for calibration grid spot detection
type GridSpotOptions struct {
	// Pixels at or below this value count as spot material. Calibration
	// grids image as dark holes on a bright background.
	Threshold uint8

	// Components smaller than this are noise, larger ones are scratches or
	// grid bars
	MinArea int
	MaxArea int
}

func DefaultGridSpotOptions() GridSpotOptions {
	return GridSpotOptions{Threshold: 80, MinArea: 9, MaxArea: 10000}
}

// DetectGridSpots - finds dark spot centroids by thresholding and collecting
// 4-connected components. Returns centroids sorted by y then x, so a clean
// grid comes back in row-major order.
func DetectGridSpots(img *image.Gray, opts GridSpotOptions) []Point {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	// Component label per pixel, 0 = unvisited or background
	visited := make([]bool, w*h)
	spots := []Point{}

	dark := func(x, y int) bool {
		return img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y <= opts.Threshold
	}

	for startY := 0; startY < h; startY++ {
		for startX := 0; startX < w; startX++ {
			if visited[startY*w+startX] || !dark(startX, startY) {
				continue
			}

			// Flood fill this component, accumulating its centroid
			stack := []image.Point{{X: startX, Y: startY}}
			visited[startY*w+startX] = true
			var sumX, sumY float64
			area := 0

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				sumX += float64(p.X)
				sumY += float64(p.Y)
				area++

				for _, n := range []image.Point{{p.X - 1, p.Y}, {p.X + 1, p.Y}, {p.X, p.Y - 1}, {p.X, p.Y + 1}} {
					if n.X < 0 || n.X >= w || n.Y < 0 || n.Y >= h {
						continue
					}
					if visited[n.Y*w+n.X] || !dark(n.X, n.Y) {
						continue
					}
					visited[n.Y*w+n.X] = true
					stack = append(stack, n)
				}
			}

			if area >= opts.MinArea && area <= opts.MaxArea {
				spots = append(spots, Point{X: sumX / float64(area), Y: sumY / float64(area)})
			}
		}
	}

	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Y != spots[j].Y {
			return spots[i].Y < spots[j].Y
		}
		return spots[i].X < spots[j].X
	})
	return spots
}

// ExpectedGrid - reference coordinates for a rows x cols spot grid with the
// given pitch, row-major from the origin
func ExpectedGrid(rows int, cols int, pitch float64) []Point {
	points := make([]Point, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			points = append(points, Point{X: float64(c) * pitch, Y: float64(r) * pitch})
		}
	}
	return points
}
