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

package odemis

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/clemtools/icat/core/transform"
)

var digitRuns = regexp.MustCompile(`\d+`)

// TileMeta - everything we pull out of one acquired tile image that the tile
// server needs to know about it. Units follow the server conventions: stage
// coordinates in micrometers, pixel size in nm/px.
type TileMeta struct {
	SectionID string
	ScopeID   string
	CameraID  string

	ImageRow int
	ImageCol int

	StageX    float64 // um
	StageY    float64 // um
	Pixelsize float64 // nm/px, mean of x and y

	Z      int
	Width  int
	Height int

	ImageURL     string
	MinIntensity int
	MaxIntensity int

	TileID  string
	AcqTime time.Time
}

// ParseTileMeta - builds tile metadata from an image description blob plus
// the things the blob can't tell us: the file path (grid position is encoded
// in the file name) and the section the tile belongs to.
func ParseTileMeta(desc string, path string, section string) (TileMeta, error) {
	meta := TileMeta{SectionID: section}

	fields, err := parseOME(desc)
	if err != nil {
		return meta, err
	}

	if fields.microscope != nil {
		meta.ScopeID = fields.microscope["model"]
	}
	if fields.detector != nil {
		meta.CameraID = fields.detector["model"]
	}

	// Grid position comes from the last two numbers in the file name,
	// column first
	name := filepath.Base(path)
	nums := digitRuns.FindAllString(name, -1)
	if len(nums) < 2 {
		return meta, fmt.Errorf("cannot infer grid position from file name: %v", name)
	}
	meta.ImageCol, _ = strconv.Atoi(nums[len(nums)-2])
	meta.ImageRow, _ = strconv.Atoi(nums[len(nums)-1])

	// Stage position, m --> um
	posX, err := floatAttr(fields.plane, "Plane", "positionx")
	if err != nil {
		return meta, err
	}
	posY, err := floatAttr(fields.plane, "Plane", "positiony")
	if err != nil {
		return meta, err
	}
	meta.StageX = 1e6 * posX
	meta.StageY = 1e6 * posY

	// Pixel size, um --> nm, averaged over x and y
	psx, err := floatAttr(fields.pixels, "Pixels", "physicalsizex")
	if err != nil {
		return meta, err
	}
	psy, err := floatAttr(fields.pixels, "Pixels", "physicalsizey")
	if err != nil {
		return meta, err
	}
	meta.Pixelsize = (1e3*psx + 1e3*psy) / 2

	meta.Width, err = intAttr(fields.pixels, "Pixels", "sizex")
	if err != nil {
		return meta, err
	}
	meta.Height, err = intAttr(fields.pixels, "Pixels", "sizey")
	if err != nil {
		return meta, err
	}

	// z index is the trailing number in the section name
	sectionNums := digitRuns.FindAllString(section, -1)
	if len(sectionNums) < 1 {
		return meta, fmt.Errorf("cannot infer z from section name: %v", section)
	}
	meta.Z, _ = strconv.Atoi(sectionNums[len(sectionNums)-1])

	meta.ImageURL = fileURI(path)

	// Acquired tiles are 16 bit
	meta.MinIntensity = 0
	meta.MaxIntensity = 65535

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	prefix := strings.SplitN(stem, "-", 2)[0]
	meta.TileID = fmt.Sprintf("%v-%v-%05dx%05d", prefix, section, meta.ImageCol, meta.ImageRow)

	if fields.acquisitionDate != "" {
		acq, err := time.Parse(time.RFC3339, strings.TrimSpace(fields.acquisitionDate))
		if err != nil {
			// Odemis sometimes omits the zone designator
			acq, err = time.Parse("2006-01-02T15:04:05", strings.TrimSpace(fields.acquisitionDate))
		}
		if err == nil {
			meta.AcqTime = acq
		}
	}

	return meta, nil
}

// ReadTileMeta - ParseTileMeta for an OME-TIFF on disk
func ReadTileMeta(path string, section string) (TileMeta, error) {
	desc, err := ReadImageDescriptionFile(path)
	if err != nil {
		return TileMeta{}, err
	}
	return ParseTileMeta(desc, path, section)
}

// ParseModalityParams - reads the registration parameters one modality
// reports: pixel size and stage position straight off the metadata, rotation
// and shear recovered from the embedded 2x2 transform matrix. Everything in
// SI units (m, radians).
func ParseModalityParams(desc string) (transform.ModalityParams, error) {
	params := transform.ModalityParams{}

	fields, err := parseOME(desc)
	if err != nil {
		return params, err
	}

	// Pixel size, um --> m
	psx, err := floatAttr(fields.pixels, "Pixels", "physicalsizex")
	if err != nil {
		return params, err
	}
	psy, err := floatAttr(fields.pixels, "Pixels", "physicalsizey")
	if err != nil {
		return params, err
	}
	params.PixelSizeX = 1e-6 * psx
	params.PixelSizeY = 1e-6 * psy

	a00, err := floatAttr(fields.transform, "Transform", "a00")
	if err != nil {
		return params, err
	}
	a01, err := floatAttr(fields.transform, "Transform", "a01")
	if err != nil {
		return params, err
	}
	a10, err := floatAttr(fields.transform, "Transform", "a10")
	if err != nil {
		return params, err
	}
	a11, err := floatAttr(fields.transform, "Transform", "a11")
	if err != nil {
		return params, err
	}

	dec := transform.DecomposeLinear(a00, a01, a10, a11)
	params.Rotation = dec.Rotation
	params.Shear = dec.Shear

	params.TranslationX, err = floatAttr(fields.plane, "Plane", "positionx")
	if err != nil {
		return params, err
	}
	params.TranslationY, err = floatAttr(fields.plane, "Plane", "positiony")
	if err != nil {
		return params, err
	}

	return params, nil
}

// ReadModalityParams - ParseModalityParams for an OME-TIFF on disk
func ReadModalityParams(path string) (transform.ModalityParams, error) {
	desc, err := ReadImageDescriptionFile(path)
	if err != nil {
		return transform.ModalityParams{}, err
	}
	return ParseModalityParams(desc)
}

// fileURI - file path to file:// URI, the form the tile server expects in
// imageUrl fields
func fileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return "file://" + abs
}
