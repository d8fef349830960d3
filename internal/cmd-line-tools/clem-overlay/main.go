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
	"github.com/clemtools/icat/core/overlay"
	"github.com/clemtools/icat/core/services"
	"github.com/clemtools/icat/core/transform"
	"github.com/clemtools/icat/core/utils"
)

func main() {
	fmt.Println("==============================")
	fmt.Println("=     iCAT CLEM overlay      =")
	fmt.Println("==============================")

	var argEMTile = flag.String("em-tile", "", "An EM OME-TIFF tile of the layer to register against")
	var argFMTile = flag.String("fm-tile", "", "The FM OME-TIFF tile to register")
	var argFMStack = flag.String("fm-stack", "", "FM stack the transform is applied to")
	var argOutStack = flag.String("out-stack", "", "Output stack name, defaults to <fm-stack>_overlay")

	// Calibration-grid fit, used instead of metadata when a grid image is given
	var argGridImage = flag.String("grid-image", "", "Image of the calibration grid acquired in the FM modality")
	var argGridRows = flag.Int("grid-rows", 0, "Calibration grid row count")
	var argGridCols = flag.Int("grid-cols", 0, "Calibration grid column count")
	var argGridPitch = flag.Float64("grid-pitch", 0, "Calibration grid pitch in EM pixels")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *argFMStack == "" {
		log.Fatalln("fm-stack is required")
	}

	outStack := *argOutStack
	if outStack == "" {
		outStack = *argFMStack + "_overlay"
	}

	svcs := services.InitServices(cfg)
	defer svcs.Close()

	var relative transform.Affine
	if *argGridImage != "" {
		relative, err = gridFitTransform(*argGridImage, *argGridRows, *argGridCols, *argGridPitch)
	} else if *argEMTile != "" && *argFMTile != "" {
		var order transform.CompositionOrder
		order, err = transform.ParseCompositionOrder(cfg.CompositionOrder)
		if err != nil {
			svcs.Fatalf("Bad config: %v", err)
		}
		relative, err = overlay.RelativeTransformFromFiles(*argEMTile, *argFMTile, order)
	} else {
		svcs.Fatalf("Either grid-image or both em-tile and fm-tile are required")
	}
	if err != nil {
		svcs.Fatalf("Failed to compute relative transform: %v", err)
	}
	svcs.Log.Infof("Relative FM->EM transform: %v", relative)

	if err := overlay.ApplyToStack(svcs.Render, *argFMStack, outStack, relative); err != nil {
		svcs.Fatalf("Failed to apply transform to %v: %v", *argFMStack, err)
	}
	svcs.Log.Infof("Registered stack written to %v", outStack)
}

func gridFitTransform(imagePath string, rows int, cols int, pitch float64) (transform.Affine, error) {
	if rows <= 0 || cols <= 0 || pitch <= 0 {
		return transform.Affine{}, fmt.Errorf("grid-rows, grid-cols and grid-pitch are required with grid-image")
	}

	img, err := utils.ReadImageFile(imagePath)
	if err != nil {
		return transform.Affine{}, err
	}

	spots := overlay.DetectGridSpots(utils.ToGray(img), overlay.DefaultGridSpotOptions())
	if len(spots) != rows*cols {
		return transform.Affine{}, fmt.Errorf("detected %v grid spots, expected %v", len(spots), rows*cols)
	}

	fitted, inliers, err := overlay.FitGridTransform(spots, overlay.ExpectedGrid(rows, cols, pitch), overlay.DefaultRANSACOptions())
	if err != nil {
		return transform.Affine{}, err
	}
	fmt.Printf("Grid fit used %v of %v spots\n", len(inliers), len(spots))
	return fitted, nil
}
