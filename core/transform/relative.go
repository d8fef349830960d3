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

import "fmt"

// ModalityParams - the imaging parameters one modality (EM or FM) reports
// for a tile. These are what the relative overlay transform is computed from.
type ModalityParams struct {
	PixelSizeX float64 // m/px
	PixelSizeY float64 // m/px

	Rotation float64 // radians
	Shear    float64

	TranslationX float64 // stage position, m
	TranslationY float64 // stage position, m
}

// CompositionOrder - the order the elementary transforms are multiplied in
// when composing the relative EM<->FM transform.
//
// The order is NOT mathematically forced: the instrument vendor's own
// convention disagrees with what calibration-grid data shows, and swapping
// shear/translate order changes the result measurably. So rather than bury
// the choice, it is an explicit parameter. OrderRotateShearScaleTranslate is
// the order that matched our calibration acquisitions.
type CompositionOrder int

const (
	// OrderRotateShearScaleTranslate - rotate, then shear, then scale, then
	// translate. Default, verified against calibration-grid overlays.
	OrderRotateShearScaleTranslate CompositionOrder = iota

	// OrderRotateScaleShearTranslate - shear applied after scaling, the
	// vendor-documented order. Kept selectable for comparison runs.
	OrderRotateScaleShearTranslate
)

// ParseCompositionOrder - the config-file spelling of a composition order
func ParseCompositionOrder(s string) (CompositionOrder, error) {
	switch s {
	case "", "rotate-shear-scale-translate":
		return OrderRotateShearScaleTranslate, nil
	case "rotate-scale-shear-translate":
		return OrderRotateScaleShearTranslate, nil
	}
	return OrderRotateShearScaleTranslate, fmt.Errorf("unknown composition order: %v", s)
}

// Relative - composes the affine transform mapping moving-image (FM) pixel
// coordinates into reference-image (EM) pixel coordinates, given the
// metadata both modalities report.
//
// All angles are radians. The translation is normalized by the reference
// pixel size so the result operates in reference-pixel units; y is negated
// as stage y runs opposite to image row order.
func Relative(em ModalityParams, fm ModalityParams, order CompositionOrder) Affine {
	rotate := NewRotation(-fm.Rotation)
	shear := NewShear(0, -em.Shear)
	scale := NewScale(fm.PixelSizeX/em.PixelSizeX, fm.PixelSizeY/em.PixelSizeY)
	translate := NewTranslation(
		(fm.TranslationX-em.TranslationX)/em.PixelSizeX,
		(fm.TranslationY-em.TranslationY)/-em.PixelSizeY,
	)

	switch order {
	case OrderRotateScaleShearTranslate:
		return rotate.Then(scale).Then(shear).Then(translate)
	default:
		return rotate.Then(shear).Then(scale).Then(translate)
	}
}
