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

	"github.com/clemtools/icat/core/errorwithstatus"
	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/utils"
)

// CorrelationMatcher - a Matcher backed by normalized cross-correlation of
// server-rendered tile images. One central match point per pair, weighted by
// the correlation score. RenderWidth trades accuracy for speed; MaxShift is
// in rendered pixels.
type CorrelationMatcher struct {
	Session     renderws.Session
	RenderWidth int
	MaxShift    int
}

func (m CorrelationMatcher) Match(pair PairRecord) (renderws.CanvasMatches, error) {
	width := m.RenderWidth
	if width <= 0 {
		width = 256
	}
	maxShift := m.MaxShift
	if maxShift <= 0 {
		maxShift = width / 4
	}

	tileBounds, err := m.Session.GetTileBounds(pair.Stack, pair.Z)
	if err != nil {
		return renderws.CanvasMatches{}, err
	}

	pBounds, ok := tileBounds[pair.Pair.P.ID]
	if !ok {
		return renderws.CanvasMatches{}, errorwithstatus.MakeNotFoundError(fmt.Sprintf("bounds of tile %v", pair.Pair.P.ID))
	}
	qBounds, ok := tileBounds[pair.Pair.Q.ID]
	if !ok {
		return renderws.CanvasMatches{}, errorwithstatus.MakeNotFoundError(fmt.Sprintf("bounds of tile %v", pair.Pair.Q.ID))
	}
	if !pBounds.Overlaps(qBounds) {
		return renderws.CanvasMatches{}, fmt.Errorf("tiles %v and %v do not overlap", pair.Pair.P.ID, pair.Pair.Q.ID)
	}

	pImg, err := m.renderGray(pair.Stack, pair.Z, pBounds, width)
	if err != nil {
		return renderws.CanvasMatches{}, err
	}
	qImg, err := m.renderGray(pair.Stack, pair.Z, qBounds, width)
	if err != nil {
		return renderws.CanvasMatches{}, err
	}

	result, err := CorrelateTranslation(pImg, qImg, maxShift)
	if err != nil {
		return renderws.CanvasMatches{}, err
	}

	// The measured shift moves q's centre relative to p's, in raw tile
	// pixels. Rendered pixels scale back by the bounds width.
	pxPerRendered := pBounds.Width() / float64(width)
	cx := float64(width) / 2 * pxPerRendered
	cy := float64(width) / 2 * pxPerRendered

	return renderws.CanvasMatches{
		PGroupID: pair.Pair.P.GroupID,
		PID:      pair.Pair.P.ID,
		QGroupID: pair.Pair.Q.GroupID,
		QID:      pair.Pair.Q.ID,
		Matches: renderws.PointMatches{
			P: [][]float64{{cx}, {cy}},
			Q: [][]float64{
				{cx - float64(result.ShiftX)*pxPerRendered},
				{cy - float64(result.ShiftY)*pxPerRendered},
			},
			W: []float64{result.Score},
		},
	}, nil
}

func (m CorrelationMatcher) renderGray(stack string, z float64, bounds renderws.Bounds, width int) (*image.Gray, error) {
	img, err := m.Session.RenderBoxImage(stack, z, bounds, width)
	if err != nil {
		return nil, err
	}
	return utils.ToGray(img), nil
}
