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
	"os"
	"path/filepath"
	"strings"

	"github.com/clemtools/icat/core/config"
	"github.com/clemtools/icat/core/odemis"
	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/services"
	"github.com/clemtools/icat/core/tiletable"
	"github.com/clemtools/icat/core/transform"
)

func main() {
	fmt.Println("==============================")
	fmt.Println("=     iCAT tile importer     =")
	fmt.Println("==============================")

	var argStack = flag.String("stack", "", "Stack to import tiles into")
	var argTileDir = flag.String("tile-dir", "", "Directory of OME-TIFF tiles to import")
	var argSection = flag.String("section", "", "Section the tiles belong to, eg S003")
	var argCSVPath = flag.String("csv", "", "Also write a tile table CSV to this path in the data bucket")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *argStack == "" || *argTileDir == "" || *argSection == "" {
		log.Fatalln("stack, tile-dir and section are all required")
	}

	svcs := services.InitServices(cfg)
	defer svcs.Close()

	specs, err := readTileSpecs(*argTileDir, *argSection)
	if err != nil {
		svcs.Fatalf("Failed to read tiles: %v", err)
	}
	if len(specs) == 0 {
		svcs.Fatalf("No OME-TIFF tiles found in %v", *argTileDir)
	}
	svcs.Log.Infof("Read %v tiles from %v", len(specs), *argTileDir)

	if err := svcs.Render.CreateStack(*argStack, renderws.StackVersion{}); err != nil {
		svcs.Fatalf("Failed to create stack: %v", err)
	}
	if err := svcs.Render.ImportTileSpecs(*argStack, specs); err != nil {
		svcs.Fatalf("Failed to import tile specs: %v", err)
	}
	if err := svcs.Render.SetStackState(*argStack, renderws.StackStateComplete); err != nil {
		svcs.Fatalf("Failed to complete stack: %v", err)
	}
	svcs.Log.Infof("Stack %v created with %v tiles", *argStack, len(specs))

	rows, err := tiletable.FromTileSpecs(*argStack, specs)
	if err != nil {
		svcs.Fatalf("Failed to build tile table rows: %v", err)
	}

	if cfg.TileTableDB != "" {
		db, err := tiletable.OpenDB(cfg.TileTableDB)
		if err != nil {
			svcs.Fatalf("Failed to open tile table DB: %v", err)
		}
		defer db.Close()

		if err := db.StoreRows(rows); err != nil {
			svcs.Fatalf("Failed to store tile table rows: %v", err)
		}
		svcs.Log.Infof("Stored %v rows in %v", len(rows), cfg.TileTableDB)
	}

	if *argCSVPath != "" {
		if err := tiletable.WriteCSV(svcs.FS, cfg.DataBucket, *argCSVPath, rows); err != nil {
			svcs.Fatalf("Failed to write tile table CSV: %v", err)
		}
		svcs.Log.Infof("Wrote tile table CSV to %v", *argCSVPath)
	}
}

// readTileSpecs - walks the tile directory, parsing every OME-TIFF into a
// tile spec seeded with a stage-position translation
func readTileSpecs(tileDir string, section string) ([]renderws.TileSpec, error) {
	specs := []renderws.TileSpec{}

	err := filepath.Walk(tileDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isOMETIFF(path) {
			return nil
		}

		meta, err := odemis.ReadTileMeta(path, section)
		if err != nil {
			return fmt.Errorf("%v: %v", path, err)
		}

		specs = append(specs, makeTileSpec(meta))
		return nil
	})

	return specs, err
}

func isOMETIFF(path string) bool {
	lowered := strings.ToLower(path)
	return strings.HasSuffix(lowered, ".ome.tif") || strings.HasSuffix(lowered, ".ome.tiff")
}

func makeTileSpec(meta odemis.TileMeta) renderws.TileSpec {
	// Stage position in um over pixel size in nm/px gives the initial
	// translation in pixels
	stageTranslation := transform.NewTranslation(
		meta.StageX*1000/meta.Pixelsize,
		meta.StageY*1000/meta.Pixelsize,
	)

	return renderws.TileSpec{
		TileID:       meta.TileID,
		Z:            float64(meta.Z),
		Width:        meta.Width,
		Height:       meta.Height,
		MinIntensity: meta.MinIntensity,
		MaxIntensity: meta.MaxIntensity,
		Layout: renderws.Layout{
			SectionID: meta.SectionID,
			ScopeID:   meta.ScopeID,
			CameraID:  meta.CameraID,
			ImageRow:  meta.ImageRow,
			ImageCol:  meta.ImageCol,
			StageX:    meta.StageX,
			StageY:    meta.StageY,
			Pixelsize: meta.Pixelsize,
		},
		MipmapLevels: map[string]renderws.MipmapLevel{
			"0": {ImageURL: meta.ImageURL},
		},
		Transforms: renderws.MakeTransformList(renderws.MakeAffineTransformSpec(stageTranslation)),
	}
}
