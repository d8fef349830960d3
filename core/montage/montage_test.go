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
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/clemtools/icat/core/logger"
	"github.com/clemtools/icat/core/renderws"
)

// pairServer - serves canned tile pairs and records stored matches
type pairServer struct {
	router *mux.Router

	mu            sync.Mutex
	storedMatches []renderws.CanvasMatches
	storeCalls    int
}

func makePairServer(zValues []float64, pairsPerZ int) *pairServer {
	ps := &pairServer{router: mux.NewRouter()}

	v1 := ps.router.PathPrefix("/render-ws/v1/owner/{owner}").Subrouter()
	stack := v1.PathPrefix("/project/{project}/stack/{stack}").Subrouter()

	stack.HandleFunc("/zValues", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(zValues)
	}).Methods("GET")

	stack.HandleFunc("/tilePairs", func(w http.ResponseWriter, r *http.Request) {
		minZ := r.URL.Query().Get("minZ")
		pairs := []renderws.NeighborPair{}
		for i := 0; i < pairsPerZ; i++ {
			pairs = append(pairs, renderws.NeighborPair{
				P: renderws.PairID{ID: fmt.Sprintf("z%v-t%v", minZ, i), GroupID: "S" + minZ},
				Q: renderws.PairID{ID: fmt.Sprintf("z%v-t%v", minZ, i+1), GroupID: "S" + minZ},
			})
		}
		json.NewEncoder(w).Encode(struct {
			NeighborPairs []renderws.NeighborPair `json:"neighborPairs"`
		}{pairs})
	}).Methods("GET")

	v1.HandleFunc("/matchCollection/{collection}/matches", func(w http.ResponseWriter, r *http.Request) {
		batch := []renderws.CanvasMatches{}
		json.NewDecoder(r.Body).Decode(&batch)

		ps.mu.Lock()
		ps.storedMatches = append(ps.storedMatches, batch...)
		ps.storeCalls++
		ps.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
	}).Methods("PUT")

	return ps
}

func makePairSession(server *httptest.Server) renderws.Session {
	return renderws.MakeSession(server.URL, "clem", "proj", 10, &logger.NullLogger{})
}

func TestMontagePairs(t *testing.T) {
	ps := makePairServer([]float64{1, 2}, 3)
	server := httptest.NewServer(ps.router)
	defer server.Close()

	pairs, err := MontagePairs(makePairSession(server), "em_stack")
	if err != nil {
		t.Fatalf("%v", err)
	}

	// 3 pairs per z, 2 z values, each tagged with its z
	if len(pairs) != 6 {
		t.Fatalf("got %v pairs", len(pairs))
	}
	if pairs[0].Z != 1 || pairs[3].Z != 2 {
		t.Errorf("z tags wrong: %v, %v", pairs[0].Z, pairs[3].Z)
	}
	if pairs[0].Stack != "em_stack" {
		t.Errorf("stack tag: %v", pairs[0].Stack)
	}
}

func TestAlignmentPairs(t *testing.T) {
	ps := makePairServer([]float64{1, 2, 3}, 2)
	server := httptest.NewServer(ps.router)
	defer server.Close()

	pairs, err := AlignmentPairs(makePairSession(server), "em_stack", 1)
	if err != nil {
		t.Fatalf("%v", err)
	}
	// One tilePairs call over the whole z range
	if len(pairs) != 2 {
		t.Fatalf("got %v pairs", len(pairs))
	}
}

// fixedMatcher - returns a fixed number of matches per pair, failing for a
// chosen tile id
type fixedMatcher struct {
	failFor string
}

func (m *fixedMatcher) Match(pair PairRecord) (renderws.CanvasMatches, error) {
	if pair.Pair.P.ID == m.failFor {
		return renderws.CanvasMatches{}, fmt.Errorf("no correlation peak")
	}
	return renderws.CanvasMatches{
		PGroupID: pair.Pair.P.GroupID, PID: pair.Pair.P.ID,
		QGroupID: pair.Pair.Q.GroupID, QID: pair.Pair.Q.ID,
		Matches: renderws.PointMatches{
			P: [][]float64{{0, 1}, {0, 1}},
			Q: [][]float64{{5, 6}, {5, 6}},
			W: []float64{1, 1},
		},
	}, nil
}

func makeTestPairs(n int) []PairRecord {
	pairs := make([]PairRecord, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, PairRecord{
			Stack: "em_stack",
			Z:     1,
			Pair: renderws.NeighborPair{
				P: renderws.PairID{ID: fmt.Sprintf("t%v", i), GroupID: "S001"},
				Q: renderws.PairID{ID: fmt.Sprintf("t%v", i+1), GroupID: "S001"},
			},
		})
	}
	return pairs
}

func TestGenerateMatches(t *testing.T) {
	ps := makePairServer(nil, 0)
	server := httptest.NewServer(ps.router)
	defer server.Close()

	stored, err := GenerateMatches(makePairSession(server), &logger.NullLogger{}, "em_matches",
		makeTestPairs(10), 4, 2, &fixedMatcher{})
	if err != nil {
		t.Fatalf("%v", err)
	}

	if stored != 10 {
		t.Errorf("stored %v matches, want 10", stored)
	}
	// 10 pairs in batches of 4 -> 3 store calls
	if ps.storeCalls != 3 {
		t.Errorf("store calls: %v, want 3", ps.storeCalls)
	}
	if len(ps.storedMatches) != 10 {
		t.Errorf("server saw %v matches", len(ps.storedMatches))
	}
}

func TestGenerateMatchesFirstErrorSurfaces(t *testing.T) {
	ps := makePairServer(nil, 0)
	server := httptest.NewServer(ps.router)
	defer server.Close()

	stored, err := GenerateMatches(makePairSession(server), &logger.NullLogger{}, "em_matches",
		makeTestPairs(6), 2, 2, &fixedMatcher{failFor: "t3"})
	if err == nil {
		t.Fatalf("expected error from failing batch")
	}

	// The failing batch stores nothing, the others still complete
	if stored != 4 {
		t.Errorf("stored %v matches, want 4", stored)
	}
}

func TestMatchDensity(t *testing.T) {
	matches := []renderws.CanvasMatches{
		{PID: "t2", QID: "t3", PGroupID: "S001", QGroupID: "S001",
			Matches: renderws.PointMatches{W: []float64{1, 1, 1}}},
		{PID: "t1", QID: "t2", PGroupID: "S001", QGroupID: "S001",
			Matches: renderws.PointMatches{W: []float64{1}}},
	}

	rows := MatchDensity(matches)
	if len(rows) != 2 {
		t.Fatalf("got %v rows", len(rows))
	}
	if rows[0].PID != "t1" || rows[0].Count != 1 {
		t.Errorf("row 0: %+v", rows[0])
	}
	if rows[1].PID != "t2" || rows[1].Count != 3 {
		t.Errorf("row 1: %+v", rows[1])
	}
}

func testPattern(x int, y int) uint8 {
	return uint8((x*7 + y*13 + (x*y)%31) % 251)
}

func TestCorrelateTranslation(t *testing.T) {
	const size = 64
	fixed := image.NewGray(image.Rect(0, 0, size, size))
	moving := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fixed.SetGray(x, y, color.Gray{Y: testPattern(x, y)})
			// moving is the same scene sampled 3 right, 2 up
			moving.SetGray(x, y, color.Gray{Y: testPattern(x+3, y-2)})
		}
	}

	result, err := CorrelateTranslation(fixed, moving, 8)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if result.ShiftX != 3 || result.ShiftY != -2 {
		t.Errorf("shift: %v,%v want 3,-2", result.ShiftX, result.ShiftY)
	}
	if result.Score < 0.99 {
		t.Errorf("score at true shift: %v", result.Score)
	}
}

func TestCorrelateTranslationSizeMismatch(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 32, 32))
	b := image.NewGray(image.Rect(0, 0, 16, 32))
	if _, err := CorrelateTranslation(a, b, 4); err == nil {
		t.Errorf("expected error for mismatched sizes")
	}
}
