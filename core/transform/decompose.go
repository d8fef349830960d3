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

package transform

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinearDecomposition - rotation/shear/scale recovered from the raw 2x2
// linear map the microscope reports per tile
type LinearDecomposition struct {
	Rotation float64 // radians, wrapped to [0, 2pi) per the Odemis convention
	Shear    float64 // off-diagonal/diagonal ratio of the scale factor
	ScaleX   float64
	ScaleY   float64
}

// DecomposeLinear - QR-decompose the microscope's 2x2 linear map
//
//	/ a00  a01 \
//	\ a10  a11 /
//
// into an orthogonal rotation Q and upper-triangular scale/shear R. The raw
// decomposition has a sign ambiguity: where a diagonal element of R is
// negative, the corresponding column of Q and row of R are both negated so
// scales come out positive and the rotation angle is unambiguous.
//
// NOTE: the matrix handed to QR is the transpose of the element order above.
// That is what the instrument's own convention calls for - its rotation angle
// is defined on the transposed map, and the wrapped angle below matches the
// value the acquisition software displays.
func DecomposeLinear(a00, a01, a10, a11 float64) LinearDecomposition {
	a := mat.NewDense(2, 2, []float64{
		a00, a10,
		a01, a11,
	})

	var qr mat.QR
	qr.Factorize(a)

	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	// Sign-normalize using the diagonal of R
	qn := [2][2]float64{{q.At(0, 0), q.At(0, 1)}, {q.At(1, 0), q.At(1, 1)}}
	rn := [2][2]float64{{r.At(0, 0), r.At(0, 1)}, {r.At(1, 0), r.At(1, 1)}}
	for col := 0; col < 2; col++ {
		if rn[col][col] < 0 {
			qn[0][col] = -qn[0][col]
			qn[1][col] = -qn[1][col]
			rn[col][0] = -rn[col][0]
			rn[col][1] = -rn[col][1]
		}
	}

	rotation := math.Atan2(qn[1][0], qn[0][0])
	rotation = math.Mod(rotation, 2*math.Pi)
	if rotation < 0 {
		rotation += 2 * math.Pi
	}

	return LinearDecomposition{
		Rotation: rotation,
		Shear:    rn[0][1] / rn[0][0],
		ScaleX:   rn[0][0],
		ScaleY:   rn[1][1],
	}
}
