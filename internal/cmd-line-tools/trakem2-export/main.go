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
	"github.com/clemtools/icat/core/services"
	"github.com/clemtools/icat/core/stitch"
	"github.com/clemtools/icat/core/trakem2"
	"github.com/clemtools/icat/core/utils"
)

func main() {
	fmt.Println("==============================")
	fmt.Println("=    iCAT TrakEM2 export     =")
	fmt.Println("==============================")

	var argStack = flag.String("stack", "", "Stack to export or import")
	var argProject = flag.String("project", "", "TrakEM2 project XML path within the data bucket")
	var argImport = flag.Bool("import", false, "Import the project file into the stack instead of exporting")
	var argSnapshotDir = flag.String("snapshot-dir", "", "Also render per-layer overview PNGs into this path in the data bucket")
	var argSnapshotWidth = flag.Int("snapshot-width", 1024, "Width of rendered overview images in pixels")

	cfg, err := config.Init()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *argStack == "" || *argProject == "" {
		log.Fatalln("stack and project are required")
	}

	svcs := services.InitServices(cfg)
	defer svcs.Close()

	if *argImport {
		if err := trakem2.ImportProject(svcs.Render, *argStack, svcs.FS, cfg.DataBucket, *argProject); err != nil {
			svcs.Fatalf("Import failed: %v", err)
		}
		svcs.Log.Infof("Imported %v into stack %v", *argProject, *argStack)
		return
	}

	if err := trakem2.ExportProject(svcs.Render, *argStack, svcs.FS, cfg.DataBucket, *argProject, nil); err != nil {
		svcs.Fatalf("Export failed: %v", err)
	}
	svcs.Log.Infof("Exported stack %v to %v", *argStack, *argProject)

	if *argSnapshotDir != "" {
		width := *argSnapshotWidth
		if width > int(cfg.MaxRenderWidth) {
			svcs.Log.Infof("Clamping snapshot width %v to configured maximum %v", width, cfg.MaxRenderWidth)
			width = int(cfg.MaxRenderWidth)
		}

		images, err := stitch.StackImages(svcs.Render, *argStack, width)
		if err != nil {
			svcs.Fatalf("Snapshot render failed: %v", err)
		}

		for _, z := range utils.GetSortedMapKeys(images) {
			data, err := utils.EncodePNG(images[z])
			if err != nil {
				svcs.Fatalf("Snapshot encode failed for z=%v: %v", z, err)
			}

			path := fmt.Sprintf("%v/%v_z%03.0f.png", *argSnapshotDir, *argStack, z)
			if err := svcs.FS.WriteObject(cfg.DataBucket, path, data); err != nil {
				svcs.Fatalf("Snapshot write failed for z=%v: %v", z, err)
			}
			svcs.Log.Infof("Wrote snapshot %v", path)
		}
	}
}
