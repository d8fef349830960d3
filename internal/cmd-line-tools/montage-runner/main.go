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

package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/clemtools/icat/core/config"
	"github.com/clemtools/icat/core/montage"
	"github.com/clemtools/icat/core/services"
)

func main() {
	fmt.Println("==============================")
	fmt.Println("=    iCAT montage runner     =")
	fmt.Println("==============================")

	var argStack = flag.String("stack", "", "Stack to enumerate tile pairs from")
	var argCollection = flag.String("collection", "", "Match collection to store point matches into")
	var argMode = flag.String("mode", "montage", "montage (pairs within sections) or alignment (pairs across sections)")
	var argZNeighborDistance = flag.Int("z-neighbor-distance", 2, "Half-height of the cross-section pair search, alignment mode only")
	var argRenderWidth = flag.Int("render-width", 256, "Width tiles are rendered at for correlation")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *argStack == "" || *argCollection == "" {
		log.Fatalln("stack and collection are required")
	}

	svcs := services.InitServices(cfg)
	defer svcs.Close()

	var pairs []montage.PairRecord
	switch *argMode {
	case "montage":
		pairs, err = montage.MontagePairs(svcs.Render, *argStack)
	case "alignment":
		pairs, err = montage.AlignmentPairs(svcs.Render, *argStack, *argZNeighborDistance)
	default:
		svcs.Fatalf("Unknown mode: %v", *argMode)
	}
	if err != nil {
		svcs.Fatalf("Failed to enumerate pairs: %v", err)
	}
	svcs.Log.Infof("Found %v %v pairs in %v", len(pairs), *argMode, *argStack)

	matcher := montage.CorrelationMatcher{
		Session:     svcs.Render,
		RenderWidth: *argRenderWidth,
	}

	startSec := svcs.TimeStamper.GetTimeNowSec()
	stored, err := montage.GenerateMatches(svcs.Render, svcs.Log, *argCollection, pairs, int(cfg.MatchBatchSize), int(cfg.ParallelFetches), matcher)
	if err != nil {
		svcs.Fatalf("Match generation failed after storing %v matches: %v", stored, err)
	}
	svcs.Log.Infof("Stored %v matches in collection %v in %v sec", stored, *argCollection, svcs.TimeStamper.GetTimeNowSec()-startSec)
}
