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

func (s Session) GetTileSpec(stack string, tileID string) (TileSpec, error) {
	spec := TileSpec{}
	err := s.getJSON(s.stackURL(stack, "/tile/%v", tileID), &spec)
	return spec, err
}

func (s Session) GetTileSpecsForZ(stack string, z float64) ([]TileSpec, error) {
	specs := []TileSpec{}
	err := s.getJSON(s.stackURL(stack, "/z/%v/tile-specs", z), &specs)
	return specs, err
}

// GetTileSpecs - all tile specs in a stack, in z order
func (s Session) GetTileSpecs(stack string) ([]TileSpec, error) {
	zValues, err := s.GetZValues(stack)
	if err != nil {
		return nil, err
	}

	result := []TileSpec{}
	for _, z := range zValues {
		specs, err := s.GetTileSpecsForZ(stack, z)
		if err != nil {
			return nil, err
		}
		result = append(result, specs...)
	}
	return result, nil
}

// GetTileSpecsInBox - tile specs of the tiles the server would render for a
// bounding box at z, pulled out of the box's render parameters
func (s Session) GetTileSpecsInBox(stack string, z float64, box Bounds, scale float64) ([]TileSpec, error) {
	params := struct {
		TileSpecs []TileSpec `json:"tileSpecs"`
	}{}
	err := s.getJSON(s.stackURL(stack, "/z/%v/box/%v,%v,%v,%v,%v/render-parameters",
		z, box.MinX, box.MinY, box.Width(), box.Height(), scale), &params)
	return params.TileSpecs, err
}

// GetTileBounds - bounding boxes of all tiles at a z, already transformed
// into registration space by the server
func (s Session) GetTileBounds(stack string, z float64) (map[string]Bounds, error) {
	raw := []struct {
		TileID string `json:"tileId"`
		Bounds
	}{}
	err := s.getJSON(s.stackURL(stack, "/z/%v/tileBounds", z), &raw)
	if err != nil {
		return nil, err
	}

	result := map[string]Bounds{}
	for _, tb := range raw {
		result[tb.TileID] = tb.Bounds
	}
	return result, nil
}

// ImportTileSpecs - PUT a batch of tile specs into a stack. The stack must
// be in LOADING state.
func (s Session) ImportTileSpecs(stack string, specs []TileSpec) error {
	return s.putJSON(s.stackURL(stack, "/resolvedTiles"), MakeResolvedTiles(specs))
}
