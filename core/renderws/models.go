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

package renderws

import (
	"github.com/clemtools/icat/core/transform"
)

// Structures mirroring the tile server's JSON schema. Field names follow the
// server's camelCase, so anything unmarshalled here can be PUT straight back.

const AffineClassName = "mpicbg.trakem2.transform.AffineModel2D"

// TransformSpec - one entry in a tile's transform list. We only ever write
// "leaf" affine entries; reference entries read from the server survive a
// round trip untouched.
type TransformSpec struct {
	Type       string `json:"type,omitempty"`
	ID         string `json:"id,omitempty"`
	RefID      string `json:"refId,omitempty"`
	ClassName  string `json:"className,omitempty"`
	DataString string `json:"dataString,omitempty"`
}

// MakeAffineTransformSpec - wraps an affine as a leaf transform spec, data
// string in the server's "m00 m10 m01 m11 tx ty" element order
func MakeAffineTransformSpec(a transform.Affine) TransformSpec {
	return TransformSpec{
		Type:       "leaf",
		ClassName:  AffineClassName,
		DataString: a.String(),
	}
}

// IsAffine - true if this spec holds an affine we know how to parse
func (t TransformSpec) IsAffine() bool {
	return t.ClassName == AffineClassName && t.DataString != ""
}

// Affine - parses the data string back into an affine
func (t TransformSpec) Affine() (transform.Affine, error) {
	return transform.ParseAffineString(t.DataString)
}

type TransformList struct {
	Type     string          `json:"type"` // always "list"
	SpecList []TransformSpec `json:"specList"`
}

func MakeTransformList(specs ...TransformSpec) TransformList {
	return TransformList{Type: "list", SpecList: specs}
}

// ComposedAffine - multiplies out all affine entries in application order.
// Returns identity for an empty list.
func (t TransformList) ComposedAffine() (transform.Affine, error) {
	composed := transform.Identity()
	for _, spec := range t.SpecList {
		if !spec.IsAffine() {
			continue
		}
		a, err := spec.Affine()
		if err != nil {
			return composed, err
		}
		composed = composed.Then(a)
	}
	return composed, nil
}

// Layout - acquisition layout info for one tile
type Layout struct {
	SectionID string  `json:"sectionId"`
	ScopeID   string  `json:"scopeId,omitempty"`
	CameraID  string  `json:"cameraId,omitempty"`
	ImageRow  int     `json:"imageRow"`
	ImageCol  int     `json:"imageCol"`
	StageX    float64 `json:"stageX"`    // um
	StageY    float64 `json:"stageY"`    // um
	Pixelsize float64 `json:"pixelsize"` // nm/px
}

type MipmapLevel struct {
	ImageURL string `json:"imageUrl"`
	MaskURL  string `json:"maskUrl,omitempty"`
}

// TileSpec - one tile as the server stores it. The transform list is only
// ever appended to during registration, never otherwise mutated.
type TileSpec struct {
	TileID       string                 `json:"tileId"`
	Z            float64                `json:"z"`
	Width        int                    `json:"width"`
	Height       int                    `json:"height"`
	MinIntensity int                    `json:"minIntensity"`
	MaxIntensity int                    `json:"maxIntensity"`
	Layout       Layout                 `json:"layout"`
	MipmapLevels map[string]MipmapLevel `json:"mipmapLevels"`
	Transforms   TransformList          `json:"transforms"`
}

// ImageURL - the level 0 image, empty if the tile has no mipmaps
func (ts TileSpec) ImageURL() string {
	return ts.MipmapLevels["0"].ImageURL
}

// AppendTransform - returns a copy of the spec with one more transform on
// the end of its list
func (ts TileSpec) AppendTransform(spec TransformSpec) TileSpec {
	specs := make([]TransformSpec, 0, len(ts.Transforms.SpecList)+1)
	specs = append(specs, ts.Transforms.SpecList...)
	specs = append(specs, spec)
	ts.Transforms = TransformList{Type: "list", SpecList: specs}
	return ts
}

// ResolvedTiles - the payload shape the server wants tile specs imported in
type ResolvedTiles struct {
	TransformSpecs map[string]TransformSpec `json:"transformIdToSpecMap,omitempty"`
	TileSpecs      map[string]TileSpec      `json:"tileIdToSpecMap"`
}

func MakeResolvedTiles(specs []TileSpec) ResolvedTiles {
	byID := map[string]TileSpec{}
	for _, spec := range specs {
		byID[spec.TileID] = spec
	}
	return ResolvedTiles{TileSpecs: byID}
}

// Bounds - a stack or section bounding box in registration space
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MinZ float64 `json:"minZ,omitempty"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
	MaxZ float64 `json:"maxZ,omitempty"`
}

func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Overlaps - true if two bounding boxes overlap or coincide. Two tiles
// overlap iff their projections onto both the x and y axes overlap.
func (b Bounds) Overlaps(other Bounds) bool {
	return b.MaxX >= other.MinX && b.MinX <= other.MaxX &&
		b.MaxY >= other.MinY && b.MinY <= other.MaxY
}

// StackVersion - metadata sent when creating a stack
type StackVersion struct {
	CycleNumber     int     `json:"cycleNumber,omitempty"`
	CycleStepNumber int     `json:"cycleStepNumber,omitempty"`
	StackResolution float64 `json:"stackResolutionX,omitempty"`
}

// StackState - lifecycle states the server recognises
type StackState string

const (
	StackStateLoading  StackState = "LOADING"
	StackStateComplete StackState = "COMPLETE"
	StackStateOffline  StackState = "OFFLINE"
)

// StackInfo - what the server reports about a stack
type StackInfo struct {
	StackID struct {
		Owner   string `json:"owner"`
		Project string `json:"project"`
		Stack   string `json:"stack"`
	} `json:"stackId"`
	State        string       `json:"state"`
	CurrentBound *Bounds      `json:"stats,omitempty"`
	Version      StackVersion `json:"currentVersion,omitempty"`
}

// TilePairOptions - parameters for the server's tile pair search
type TilePairOptions struct {
	MinZ                      float64
	MaxZ                      float64
	ZNeighborDistance         int
	XYNeighborFactor          float64
	ExcludeSameLayerNeighbors bool
}

// PairID - one side of a neighbor pair
type PairID struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`
}

// NeighborPair - two tiles the server considers neighbors
type NeighborPair struct {
	P PairID `json:"p"`
	Q PairID `json:"q"`
}

type neighborPairsResponse struct {
	NeighborPairs []NeighborPair `json:"neighborPairs"`
}

// PointMatches - matched feature point sets between two canvases. P and Q
// are 2xN coordinate arrays, W the per-match weights.
type PointMatches struct {
	P [][]float64 `json:"p"`
	Q [][]float64 `json:"q"`
	W []float64   `json:"w"`
}

// CanvasMatches - point matches between a tile pair, keyed the way the
// server's match service stores them
type CanvasMatches struct {
	PGroupID string       `json:"pGroupId"`
	PID      string       `json:"pId"`
	QGroupID string       `json:"qGroupId"`
	QID      string       `json:"qId"`
	Matches  PointMatches `json:"matches"`
}

// MatchCount - number of matched points, 0 for an empty set
func (c CanvasMatches) MatchCount() int {
	return len(c.Matches.W)
}
