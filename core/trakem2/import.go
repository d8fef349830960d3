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

package trakem2

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clemtools/icat/core/errorwithstatus"
	"github.com/clemtools/icat/core/fileaccess"
	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/transform"
)

type t2Patch struct {
	Title     string `xml:"title,attr"`
	Transform string `xml:"transform,attr"`
	FilePath  string `xml:"file_path,attr"`
	Width     int    `xml:"width,attr"`
	Height    int    `xml:"height,attr"`
	Min       int    `xml:"min,attr"`
	Max       int    `xml:"max,attr"`
}

type t2Layer struct {
	Z       float64   `xml:"z,attr"`
	Patches []t2Patch `xml:"t2_patch"`
}

type t2Project struct {
	XMLName  xml.Name `xml:"trakem2"`
	LayerSet struct {
		Layers []t2Layer `xml:"t2_layer"`
	} `xml:"t2_layer_set"`
}

// ImportProject - reads a TrakEM2 project XML and rebuilds it as a stack.
// The patch transform becomes the tile's single affine, so alignments done
// by hand in TrakEM2 come back as registered stacks.
func ImportProject(sess renderws.Session, stack string, fs fileaccess.FileAccess, bucket string, filePath string) error {
	data, err := fs.ReadObject(bucket, filePath)
	if err != nil {
		return err
	}

	specs, err := parseProject(data)
	if err != nil {
		return fmt.Errorf("parsing TrakEM2 project %v: %v", filePath, err)
	}

	sess.Log.Infof("Importing %v tiles from %v into %v", len(specs), filePath, stack)

	if err := sess.CreateStack(stack, renderws.StackVersion{}); err != nil {
		return err
	}
	if err := sess.ImportTileSpecs(stack, specs); err != nil {
		return err
	}
	return sess.SetStackState(stack, renderws.StackStateComplete)
}

func parseProject(data []byte) ([]renderws.TileSpec, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	// Projects declare ISO-8859-1 but only ever hold ASCII
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	project := t2Project{}
	if err := decoder.Decode(&project); err != nil {
		return nil, err
	}

	specs := []renderws.TileSpec{}
	for _, layer := range project.LayerSet.Layers {
		for _, patch := range layer.Patches {
			spec, err := patchToTileSpec(patch, layer.Z)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}

	if len(specs) == 0 {
		return nil, errorwithstatus.MakeBadRequestError(fmt.Errorf("no t2_patch elements found"))
	}
	return specs, nil
}

func patchToTileSpec(patch t2Patch, z float64) (renderws.TileSpec, error) {
	affine, err := parseMatrix(patch.Transform)
	if err != nil {
		return renderws.TileSpec{}, fmt.Errorf("patch %v: %v", patch.Title, err)
	}

	digits := tileIDDigits.FindAllString(patch.Title, -1)
	if len(digits) < 2 {
		return renderws.TileSpec{}, fmt.Errorf("patch title %v has no col/row digits", patch.Title)
	}
	col, _ := strconv.Atoi(digits[len(digits)-2])
	row, _ := strconv.Atoi(digits[len(digits)-1])

	return renderws.TileSpec{
		TileID:       patch.Title,
		Z:            z,
		Width:        patch.Width,
		Height:       patch.Height,
		MinIntensity: patch.Min,
		MaxIntensity: patch.Max,
		Layout: renderws.Layout{
			SectionID: fmt.Sprintf("S%03d", int(z)),
			ImageCol:  col,
			ImageRow:  row,
		},
		MipmapLevels: map[string]renderws.MipmapLevel{
			"0": {ImageURL: patch.FilePath},
		},
		Transforms: renderws.MakeTransformList(renderws.MakeAffineTransformSpec(affine)),
	}, nil
}

// parseMatrix - the inverse of matrixString, column-major attribute order
func parseMatrix(s string) (transform.Affine, error) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "matrix("), ")")
	parts := strings.Split(trimmed, ",")
	if len(parts) != 6 {
		return transform.Affine{}, fmt.Errorf("bad transform attribute %q", s)
	}

	vals := [6]float64{}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return transform.Affine{}, fmt.Errorf("bad transform attribute %q: %v", s, err)
		}
		vals[i] = v
	}

	// matrix(m00, m10, m01, m11, tx, ty)
	return transform.NewFromComponents(vals[0], vals[2], vals[1], vals[3], vals[4], vals[5]), nil
}
