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

// Flattens tile server records into tables the downstream analysis scripts
// can join on: layout expanded into columns, mipmaps collapsed to the level 0
// image URL, the transform list summarised to its composed affine.
package tiletable

import (
	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/transform"
)

// Row - one tile, flat
type Row struct {
	Stack  string
	TileID string
	Z      float64

	Width        int
	Height       int
	MinIntensity int
	MaxIntensity int

	SectionID string
	ScopeID   string
	CameraID  string
	ImageRow  int
	ImageCol  int
	StageX    float64 // um
	StageY    float64 // um
	Pixelsize float64 // nm/px

	ImageURL string

	TransformCount int
	Transform      transform.Affine // all list entries multiplied out
}

// FromTileSpecs - flattens tile specs into rows, preserving acquisition
// order. Unparseable transform entries fail the whole conversion rather than
// silently producing a wrong composed matrix.
func FromTileSpecs(stack string, specs []renderws.TileSpec) ([]Row, error) {
	rows := make([]Row, 0, len(specs))

	for _, spec := range specs {
		composed, err := spec.Transforms.ComposedAffine()
		if err != nil {
			return nil, err
		}

		rows = append(rows, Row{
			Stack:          stack,
			TileID:         spec.TileID,
			Z:              spec.Z,
			Width:          spec.Width,
			Height:         spec.Height,
			MinIntensity:   spec.MinIntensity,
			MaxIntensity:   spec.MaxIntensity,
			SectionID:      spec.Layout.SectionID,
			ScopeID:        spec.Layout.ScopeID,
			CameraID:       spec.Layout.CameraID,
			ImageRow:       spec.Layout.ImageRow,
			ImageCol:       spec.Layout.ImageCol,
			StageX:         spec.Layout.StageX,
			StageY:         spec.Layout.StageY,
			Pixelsize:      spec.Layout.Pixelsize,
			ImageURL:       spec.ImageURL(),
			TransformCount: len(spec.Transforms.SpecList),
			Transform:      composed,
		})
	}

	return rows, nil
}

// FromStack - fetches all tile specs for a stack and flattens them
func FromStack(sess renderws.Session, stack string) ([]Row, error) {
	specs, err := sess.GetTileSpecs(stack)
	if err != nil {
		return nil, err
	}
	return FromTileSpecs(stack, specs)
}
