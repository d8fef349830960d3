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

package utils

import (
	"fmt"
	"image"
	"image/color"
	"testing"
)

func Example_minMax() {
	fmt.Println(MinMax([]float64{3, 1, 4, 1, 5}))
	fmt.Println(MinMax([]int{}))

	// Output:
	// 1 5
	// 0 0
}

func Example_getSortedMapKeys() {
	fmt.Println(GetSortedMapKeys(map[float64]string{3: "c", 1: "a", 2: "b"}))

	// Output:
	// [1 2 3]
}

func TestToGray(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.SetRGBA(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	gray := ToGray(rgba)
	if gray.GrayAt(0, 0).Y != 255 || gray.GrayAt(1, 0).Y != 0 {
		t.Errorf("gray conversion: %v, %v", gray.GrayAt(0, 0).Y, gray.GrayAt(1, 0).Y)
	}

	// Already-gray images pass through without copying
	if again := ToGray(gray); again != gray {
		t.Errorf("expected same image back")
	}
}

func TestEncodePNGRoundTrip(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	img.SetGray(1, 1, color.Gray{Y: 128})

	data, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(data) == 0 || string(data[1:4]) != "PNG" {
		t.Errorf("not a PNG: %v bytes", len(data))
	}
}
