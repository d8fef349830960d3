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
	"fmt"
	"net/url"
)

// TilePairs - asks the server for tile pairs whose bounding circles are
// within xyNeighborFactor of each other, over the given z range
func (s Session) TilePairs(stack string, opts TilePairOptions) ([]NeighborPair, error) {
	query := url.Values{}
	query.Set("zNeighborDistance", fmt.Sprintf("%v", opts.ZNeighborDistance))
	if opts.XYNeighborFactor > 0 {
		query.Set("xyNeighborFactor", fmt.Sprintf("%v", opts.XYNeighborFactor))
	}
	if opts.ExcludeSameLayerNeighbors {
		query.Set("excludeSameLayerNeighbors", "true")
	}

	reqURL := s.stackURL(stack, "/tilePairs?minZ=%v&maxZ=%v&%v", opts.MinZ, opts.MaxZ, query.Encode())

	resp := neighborPairsResponse{}
	err := s.getJSON(reqURL, &resp)
	if err != nil {
		return nil, err
	}
	return resp.NeighborPairs, nil
}
