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
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/clemtools/icat/core/transform"
)

// RANSACOptions - parameters for the robust grid fit
type RANSACOptions struct {
	Iterations      int
	InlierThreshold float64 // max residual distance for a correspondence to count as inlier
	MinInliers      int     // fit fails below this
	Seed            int64   // 0 uses a fixed default, keeping fits reproducible
}

func DefaultRANSACOptions() RANSACOptions {
	return RANSACOptions{Iterations: 2000, InlierThreshold: 3.0, MinInliers: 6}
}

// FitGridTransform - fits the affine mapping detected calibration spots onto
// their expected grid coordinates: minimum-sample (3) random consensus, then
// a least-squares refit over all inliers. Correspondence is by index, so
// detected[i] pairs with expected[i]. The failure mode is insufficient
// inliers.
func FitGridTransform(detected []Point, expected []Point, opts RANSACOptions) (transform.Affine, []int, error) {
	if len(detected) != len(expected) {
		return transform.Affine{}, nil, fmt.Errorf("point count mismatch: %v vs %v", len(detected), len(expected))
	}
	if len(detected) < 3 {
		return transform.Affine{}, nil, fmt.Errorf("need at least 3 points, got %v", len(detected))
	}
	if opts.MinInliers < 3 {
		opts.MinInliers = 3
	}

	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	n := len(detected)
	bestInliers := []int{}

	for iter := 0; iter < opts.Iterations; iter++ {
		indices := rng.Perm(n)[:3]

		sample := [3]Point{detected[indices[0]], detected[indices[1]], detected[indices[2]]}
		target := [3]Point{expected[indices[0]], expected[indices[1]], expected[indices[2]]}

		candidate, err := affineFromThree(sample, target)
		if err != nil {
			continue
		}

		inliers := []int{}
		for i := range detected {
			x, y := candidate.Apply(detected[i].X, detected[i].Y)
			if math.Hypot(x-expected[i].X, y-expected[i].Y) < opts.InlierThreshold {
				inliers = append(inliers, i)
			}
		}

		if len(inliers) > len(bestInliers) {
			bestInliers = inliers
		}
	}

	if len(bestInliers) < opts.MinInliers {
		return transform.Affine{}, nil, fmt.Errorf("insufficient inliers: %v of %v required", len(bestInliers), opts.MinInliers)
	}

	// Refit over all inliers
	inlierSrc := make([]Point, len(bestInliers))
	inlierDst := make([]Point, len(bestInliers))
	for i, idx := range bestInliers {
		inlierSrc[i] = detected[idx]
		inlierDst[i] = expected[idx]
	}

	final, err := affineLeastSquares(inlierSrc, inlierDst)
	if err != nil {
		return transform.Affine{}, nil, err
	}

	return final, bestInliers, nil
}

// affineFromThree - exact affine from 3 correspondences, solving the 6x6
// system [x', y'] = [a, b, tx; c, d, ty] * [x, y, 1]
func affineFromThree(src [3]Point, dst [3]Point) (transform.Affine, error) {
	a := mat.NewDense(6, 6, nil)
	b := mat.NewVecDense(6, nil)

	for i := 0; i < 3; i++ {
		x, y := src[i].X, src[i].Y

		a.Set(i*2, 0, x)
		a.Set(i*2, 1, y)
		a.Set(i*2, 2, 1)
		b.SetVec(i*2, dst[i].X)

		a.Set(i*2+1, 3, x)
		a.Set(i*2+1, 4, y)
		a.Set(i*2+1, 5, 1)
		b.SetVec(i*2+1, dst[i].Y)
	}

	var params mat.VecDense
	if err := params.SolveVec(a, b); err != nil {
		return transform.Affine{}, err
	}

	return paramsToAffine(&params), nil
}

// affineLeastSquares - overdetermined fit over all correspondences via QR
func affineLeastSquares(src []Point, dst []Point) (transform.Affine, error) {
	n := len(src)

	a := mat.NewDense(n*2, 6, nil)
	b := mat.NewVecDense(n*2, nil)

	for i := 0; i < n; i++ {
		x, y := src[i].X, src[i].Y

		a.Set(i*2, 0, x)
		a.Set(i*2, 1, y)
		a.Set(i*2, 2, 1)
		b.SetVec(i*2, dst[i].X)

		a.Set(i*2+1, 3, x)
		a.Set(i*2+1, 4, y)
		a.Set(i*2+1, 5, 1)
		b.SetVec(i*2+1, dst[i].Y)
	}

	var qr mat.QR
	qr.Factorize(a)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, b); err != nil {
		return transform.Affine{}, err
	}

	return paramsToAffine(&params), nil
}

func paramsToAffine(params *mat.VecDense) transform.Affine {
	return transform.NewFromComponents(
		params.AtVec(0), params.AtVec(1),
		params.AtVec(3), params.AtVec(4),
		params.AtVec(2), params.AtVec(5),
	)
}
