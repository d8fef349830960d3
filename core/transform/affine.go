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

// 2D affine transforms as 3x3 homogeneous matrices. These are what tile
// positions are expressed in: each tile carries an ordered list of affines
// mapping raw pixel space into the shared registration space.
package transform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Affine - 3x3 homogeneous matrix. Maps column vectors, so applying to a
// point is [x' y' 1]^T = M * [x y 1]^T. Zero value is NOT the identity,
// use Identity().
type Affine struct {
	M [3][3]float64
}

func Identity() Affine {
	return Affine{M: [3][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}}
}

func NewTranslation(tx float64, ty float64) Affine {
	a := Identity()
	a.M[0][2] = tx
	a.M[1][2] = ty
	return a
}

func NewScale(sx float64, sy float64) Affine {
	a := Identity()
	a.M[0][0] = sx
	a.M[1][1] = sy
	return a
}

// NewRotation - rotation by theta radians, counter-clockwise in a y-up frame
func NewRotation(theta float64) Affine {
	a := Identity()
	cosT := math.Cos(theta)
	sinT := math.Sin(theta)
	a.M[0][0] = cosT
	a.M[0][1] = -sinT
	a.M[1][0] = sinT
	a.M[1][1] = cosT
	return a
}

// NewShear - skew by the given angles (radians). The off-diagonal terms are
// the tangents of the angles, matching the convention the relative-transform
// composition was calibrated against.
func NewShear(shx float64, shy float64) Affine {
	a := Identity()
	a.M[0][1] = math.Tan(shx)
	a.M[1][0] = math.Tan(shy)
	return a
}

// NewFromComponents - build from the 2x2 linear part + translation:
//
//	/ m00  m01  tx \
//	| m10  m11  ty |
//	\  0    0    1 /
func NewFromComponents(m00, m01, m10, m11, tx, ty float64) Affine {
	return Affine{M: [3][3]float64{
		{m00, m01, tx},
		{m10, m11, ty},
		{0, 0, 1},
	}}
}

// Mul - matrix product a*other. The result applies other first, then a.
func (a Affine) Mul(other Affine) Affine {
	result := Affine{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += a.M[i][k] * other.M[k][j]
			}
			result.M[i][j] = sum
		}
	}
	return result
}

// Then - a followed by next, so Then chains read in application order
func (a Affine) Then(next Affine) Affine {
	return next.Mul(a)
}

// Apply - transform the point (x, y)
func (a Affine) Apply(x float64, y float64) (float64, float64) {
	xOut := a.M[0][0]*x + a.M[0][1]*y + a.M[0][2]
	yOut := a.M[1][0]*x + a.M[1][1]*y + a.M[1][2]
	return xOut, yOut
}

// Invert - returns the inverse transform. Fails if the linear part is
// singular, in which case the transform is meaningless for registration
// anyway.
func (a Affine) Invert() (Affine, error) {
	src := mat.NewDense(3, 3, a.flat())

	var inv mat.Dense
	if err := inv.Inverse(src); err != nil {
		return Identity(), fmt.Errorf("affine transform is not invertible: %v", err)
	}

	result := Affine{}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			result.M[i][j] = inv.At(i, j)
		}
	}
	return result, nil
}

// Translation - the translation components (tx, ty)
func (a Affine) Translation() (float64, float64) {
	return a.M[0][2], a.M[1][2]
}

// Equal - element-wise comparison within tolerance
func (a Affine) Equal(other Affine, tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(a.M[i][j]-other.M[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func (a Affine) IsIdentity(tol float64) bool {
	return a.Equal(Identity(), tol)
}

// String - matches the render-ws affine data string layout:
// "m00 m10 m01 m11 tx ty" (column-major linear part, then translation)
func (a Affine) String() string {
	return fmt.Sprintf("%v %v %v %v %v %v", a.M[0][0], a.M[1][0], a.M[0][1], a.M[1][1], a.M[0][2], a.M[1][2])
}

// ParseAffineString - inverse of String
func ParseAffineString(data string) (Affine, error) {
	var m00, m10, m01, m11, tx, ty float64
	n, err := fmt.Sscanf(data, "%f %f %f %f %f %f", &m00, &m10, &m01, &m11, &tx, &ty)
	if err != nil || n != 6 {
		return Identity(), fmt.Errorf("failed to parse affine data string: %v", data)
	}
	return NewFromComponents(m00, m01, m10, m11, tx, ty), nil
}

func (a Affine) flat() []float64 {
	result := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		result = append(result, a.M[i][0], a.M[i][1], a.M[i][2])
	}
	return result
}
