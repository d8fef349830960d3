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
	"testing"
)

func TestParseCompositionOrder(t *testing.T) {
	checks := []struct {
		in   string
		want CompositionOrder
	}{
		{"", OrderRotateShearScaleTranslate},
		{"rotate-shear-scale-translate", OrderRotateShearScaleTranslate},
		{"rotate-scale-shear-translate", OrderRotateScaleShearTranslate},
	}
	for _, c := range checks {
		got, err := ParseCompositionOrder(c.in)
		if err != nil || got != c.want {
			t.Errorf("ParseCompositionOrder(%q) = %v, %v", c.in, got, err)
		}
	}

	if _, err := ParseCompositionOrder("translate-first"); err == nil {
		t.Errorf("expected error for unknown order")
	}
}

func TestRelativeIdenticalModalitiesIsIdentity(t *testing.T) {
	p := ModalityParams{
		PixelSizeX:   5e-9,
		PixelSizeY:   5e-9,
		Rotation:     0,
		Shear:        0,
		TranslationX: 1e-6,
		TranslationY: 2e-6,
	}

	rel := Relative(p, p, OrderRotateShearScaleTranslate)
	if rel != Identity() {
		t.Errorf("expected exact identity, got %+v", rel)
	}
}

func TestRelativeRoundTrip(t *testing.T) {
	em := ModalityParams{
		PixelSizeX: 5e-9, PixelSizeY: 5e-9,
		Rotation: 0.002, Shear: 0.01,
		TranslationX: 1.5e-6, TranslationY: -0.4e-6,
	}
	fm := ModalityParams{
		PixelSizeX: 1e-7, PixelSizeY: 1.1e-7,
		Rotation: 0.35, Shear: 0,
		TranslationX: 3e-6, TranslationY: 2e-6,
	}

	for _, order := range []CompositionOrder{OrderRotateShearScaleTranslate, OrderRotateScaleShearTranslate} {
		rel := Relative(em, fm, order)
		inv, err := rel.Invert()
		if err != nil {
			t.Fatalf("order %v: invert failed: %v", order, err)
		}
		if !rel.Mul(inv).IsIdentity(1e-9) {
			t.Errorf("order %v: forward*inverse not identity: %+v", order, rel.Mul(inv))
		}
	}
}

func TestRelativeTranslationOnlyChange(t *testing.T) {
	em := ModalityParams{
		PixelSizeX: 5e-9, PixelSizeY: 5e-9,
		Rotation: 0, Shear: 0.02,
		TranslationX: 0, TranslationY: 0,
	}
	fm := ModalityParams{
		PixelSizeX: 1e-7, PixelSizeY: 1e-7,
		Rotation: 0.1, Shear: 0,
		TranslationX: 5e-8, TranslationY: 5e-8,
	}

	before := Relative(em, fm, OrderRotateShearScaleTranslate)

	// Move both stages
	em.TranslationX += 7e-7
	fm.TranslationX -= 3e-7
	fm.TranslationY += 1e-6
	after := Relative(em, fm, OrderRotateShearScaleTranslate)

	// Linear sub-block must be untouched by translation inputs
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if before.M[i][j] != after.M[i][j] {
				t.Errorf("linear part changed at %v,%v: %v -> %v", i, j, before.M[i][j], after.M[i][j])
			}
		}
	}

	if before.M[0][2] == after.M[0][2] && before.M[1][2] == after.M[1][2] {
		t.Errorf("translation part did not change")
	}
}

// The worked CLEM example: 5nm EM pixels, 100nm FM pixels rotated by 0.1 rad
// and offset by 50nm on both axes.
func TestRelativeEMFMOverlay(t *testing.T) {
	em := ModalityParams{
		PixelSizeX: 5e-9, PixelSizeY: 5e-9,
		Rotation: 0, Shear: 0,
		TranslationX: 0, TranslationY: 0,
	}
	fm := ModalityParams{
		PixelSizeX: 1e-7, PixelSizeY: 1e-7,
		Rotation: 0.1, Shear: 0,
		TranslationX: 5e-8, TranslationY: 5e-8,
	}

	rel := Relative(em, fm, OrderRotateShearScaleTranslate)

	// Scale sub-block must be diag(20, 20)...
	sx := math.Hypot(rel.M[0][0], rel.M[1][0])
	sy := math.Hypot(rel.M[0][1], rel.M[1][1])
	if math.Abs(sx-20) > 1e-9 || math.Abs(sy-20) > 1e-9 {
		t.Errorf("scale: got %v,%v want 20,20", sx, sy)
	}

	// ...with a -0.1 rad rotation
	rot := math.Atan2(rel.M[1][0], rel.M[0][0])
	if math.Abs(rot-(-0.1)) > 1e-9 {
		t.Errorf("rotation: got %v want -0.1", rot)
	}

	// Translation in EM pixel units, y negated
	tx, ty := rel.Translation()
	if math.Abs(tx-10) > 1e-9 || math.Abs(ty-(-10)) > 1e-9 {
		t.Errorf("translation: got %v,%v want 10,-10", tx, ty)
	}
}

func TestRelativeOrderSensitivity(t *testing.T) {
	// With non-zero shear AND anisotropic scale the two documented orders
	// must differ - that is the whole reason the order is a parameter
	em := ModalityParams{
		PixelSizeX: 5e-9, PixelSizeY: 5e-9,
		Rotation: 0, Shear: 0.05,
		TranslationX: 0, TranslationY: 0,
	}
	fm := ModalityParams{
		PixelSizeX: 1e-7, PixelSizeY: 2e-7,
		Rotation: 0.1, Shear: 0,
		TranslationX: 1e-6, TranslationY: 1e-6,
	}

	a := Relative(em, fm, OrderRotateShearScaleTranslate)
	b := Relative(em, fm, OrderRotateScaleShearTranslate)
	if a.Equal(b, 1e-12) {
		t.Errorf("expected composition orders to differ, both gave %+v", a)
	}
}
