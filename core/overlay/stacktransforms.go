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
	"math"

	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/transform"
)

// Whole-stack transform application: every tile gets the transform appended
// to its list and the result is imported under the output stack name (which
// may equal the input, overwriting in place). The output stack is left
// COMPLETE so it can render immediately.

func ApplyToStack(sess renderws.Session, stackIn string, stackOut string, affines ...transform.Affine) error {
	specs, err := sess.GetTileSpecs(stackIn)
	if err != nil {
		return err
	}

	updated := make([]renderws.TileSpec, 0, len(specs))
	for _, spec := range specs {
		for _, a := range affines {
			spec = spec.AppendTransform(renderws.MakeAffineTransformSpec(a))
		}
		updated = append(updated, spec)
	}

	if stackOut == "" {
		stackOut = stackIn
	}

	if err := sess.CreateStack(stackOut, renderws.StackVersion{}); err != nil {
		return err
	}
	if err := sess.ImportTileSpecs(stackOut, updated); err != nil {
		return err
	}
	return sess.SetStackState(stackOut, renderws.StackStateComplete)
}

// ScaleStack - scales about the stack centre, then re-anchors so the scaled
// stack's minimum corner sits at the origin
func ScaleStack(sess renderws.Session, stackIn string, stackOut string, sx float64, sy float64) error {
	bounds, err := sess.GetStackBounds(stackIn)
	if err != nil {
		return err
	}

	x0 := (bounds.MinX + bounds.MaxX) / 2
	y0 := (bounds.MinY + bounds.MaxY) / 2

	toCentre := transform.NewTranslation(-x0, -y0)
	scale := transform.NewScale(sx, sy)
	reAnchor := transform.NewTranslation(
		math.Abs(bounds.MinX-x0)*sx,
		math.Abs(bounds.MinY-y0)*sy,
	)

	return ApplyToStack(sess, stackIn, stackOut, toCentre, scale, reAnchor)
}

func RotateStack(sess renderws.Session, stackIn string, stackOut string, radians float64) error {
	return ApplyToStack(sess, stackIn, stackOut, transform.NewRotation(radians))
}

func TranslateStack(sess renderws.Session, stackIn string, stackOut string, tx float64, ty float64) error {
	return ApplyToStack(sess, stackIn, stackOut, transform.NewTranslation(tx, ty))
}
