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
	"sync"

	"github.com/clemtools/icat/core/logger"
	"github.com/clemtools/icat/core/renderws"
)

// Matcher - computes point matches for one tile pair. Implementations range
// from local image correlation to calls out to an external feature matcher;
// GenerateMatches only cares that each call is independent and blocking.
type Matcher interface {
	Match(pair PairRecord) (renderws.CanvasMatches, error)
}

// GenerateMatches - computes and stores matches for all pairs, fanning the
// batches out over at most maxParallel goroutines. Batches are independent
// so there is no ordering guarantee; the first error is returned after
// everything finishes, further errors just get logged.
func GenerateMatches(
	sess renderws.Session,
	log logger.ILogger,
	collection string,
	pairs []PairRecord,
	batchSize int,
	maxParallel int,
	matcher Matcher,
) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}
	if maxParallel <= 0 {
		maxParallel = 8
	}

	batches := [][]PairRecord{}
	for start := 0; start < len(pairs); start += batchSize {
		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}
		batches = append(batches, pairs[start:end])
	}

	var wg sync.WaitGroup
	wg.Add(len(batches))

	// Each in-flight batch holds a slot, capping concurrent tile renders
	slots := make(chan struct{}, maxParallel)

	// Mutex for accessing the results below
	mu := sync.Mutex{}
	stored := 0
	var firstError error

	for batchIdx, batch := range batches {
		go func(batchIdx int, batch []PairRecord) {
			defer wg.Done()

			slots <- struct{}{}
			defer func() { <-slots }()

			log.Debugf("  Matching batch %v (%v pairs)", batchIdx, len(batch))

			matches := []renderws.CanvasMatches{}
			var batchError error
			for _, pair := range batch {
				m, err := matcher.Match(pair)
				if err != nil {
					batchError = fmt.Errorf("matching %v with %v: %v", pair.Pair.P.ID, pair.Pair.Q.ID, err)
					break
				}
				matches = append(matches, m)
			}

			if batchError == nil && len(matches) > 0 {
				batchError = sess.StoreMatches(collection, matches)
			}

			mu.Lock()
			defer mu.Unlock()

			if batchError != nil {
				log.Errorf("batch %v failed: %v", batchIdx, batchError)
				if firstError == nil {
					firstError = batchError
				}
				return
			}
			stored += len(matches)
			log.Debugf("  Finished batch %v", batchIdx)
		}(batchIdx, batch)
	}

	wg.Wait()
	return stored, firstError
}
