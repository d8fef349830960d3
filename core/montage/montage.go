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

// Montaging: enumerating neighboring tile pairs within and across sections,
// generating point matches for them, and summarising match density.
package montage

import (
	"sort"

	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/utils"
)

// PairRecord - one neighbor pair, tagged with the stack and z it came from
type PairRecord struct {
	Stack string
	Z     float64
	Pair  renderws.NeighborPair
}

// MontagePairs - collects tile pairs from a stack one section at a time.
// Pairs within a section are what montaging stitches together.
func MontagePairs(sess renderws.Session, stack string) ([]PairRecord, error) {
	zValues, err := sess.GetZValues(stack)
	if err != nil {
		return nil, err
	}

	result := []PairRecord{}
	for _, z := range zValues {
		pairs, err := sess.TilePairs(stack, renderws.TilePairOptions{MinZ: z, MaxZ: z})
		if err != nil {
			return nil, err
		}
		for _, pair := range pairs {
			result = append(result, PairRecord{Stack: stack, Z: z, Pair: pair})
		}
	}

	return result, nil
}

// AlignmentPairs - collects tile pairs across sections for serial alignment.
// zNeighborDistance is the half-height of the search cylinder; same-layer
// neighbors are excluded since montaging already covers those.
func AlignmentPairs(sess renderws.Session, stack string, zNeighborDistance int) ([]PairRecord, error) {
	zValues, err := sess.GetZValues(stack)
	if err != nil {
		return nil, err
	}
	minZ, maxZ := utils.MinMax(zValues)

	pairs, err := sess.TilePairs(stack, renderws.TilePairOptions{
		MinZ:                      minZ,
		MaxZ:                      maxZ,
		ZNeighborDistance:         zNeighborDistance,
		ExcludeSameLayerNeighbors: true,
	})
	if err != nil {
		return nil, err
	}

	result := make([]PairRecord, 0, len(pairs))
	for _, pair := range pairs {
		result = append(result, PairRecord{Stack: stack, Pair: pair})
	}
	return result, nil
}

// DensityRow - match count for one tile pair, the input for heatmap plots
type DensityRow struct {
	PGroupID string
	PID      string
	QGroupID string
	QID      string
	Count    int
}

// MatchDensity - per-pair match counts, sorted so output is deterministic
func MatchDensity(matches []renderws.CanvasMatches) []DensityRow {
	rows := make([]DensityRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, DensityRow{
			PGroupID: m.PGroupID,
			PID:      m.PID,
			QGroupID: m.QGroupID,
			QID:      m.QID,
			Count:    m.MatchCount(),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PID != rows[j].PID {
			return rows[i].PID < rows[j].PID
		}
		return rows[i].QID < rows[j].QID
	})
	return rows
}
