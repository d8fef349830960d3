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

package fileaccess

import (
	"strings"
	"testing"
)

type tileRecord struct {
	TileID string `json:"tileId"`
	Z      int    `json:"z"`
}

// The same expectations hold for every implementation, so the suite is
// shared between the local FS and the in-memory mock
func runFileAccessSuite(t *testing.T, fs FileAccess, bucket string) {
	exists, err := fs.ObjectExists(bucket, "runs/run01/meta.json")
	if err != nil {
		t.Fatalf("ObjectExists: %v", err)
	}
	if exists {
		t.Errorf("object existed before write")
	}

	record := tileRecord{TileID: "tile-S001-00000x00000", Z: 1}
	if err := fs.WriteJSON(bucket, "runs/run01/meta.json", record); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := fs.WriteObject(bucket, "runs/run01/tiles/t0.raw", []byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteObject: %v", err)
	}

	exists, err = fs.ObjectExists(bucket, "runs/run01/meta.json")
	if err != nil || !exists {
		t.Errorf("object missing after write: %v", err)
	}

	listed, err := fs.ListObjects(bucket, "runs/run01")
	if err != nil {
		t.Fatalf("ListObjects: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("listed %v objects, want 2: %v", len(listed), listed)
	}

	readBack := tileRecord{}
	if err := fs.ReadJSON(bucket, "runs/run01/meta.json", &readBack, false); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if readBack != record {
		t.Errorf("JSON round trip mismatch: %+v", readBack)
	}

	// Missing file with emptyIfNotFound leaves the target untouched
	missing := tileRecord{TileID: "untouched"}
	if err := fs.ReadJSON(bucket, "runs/run01/nope.json", &missing, true); err != nil {
		t.Errorf("ReadJSON emptyIfNotFound: %v", err)
	}
	if missing.TileID != "untouched" {
		t.Errorf("missing read clobbered target: %+v", missing)
	}

	// ...without it, the not-found error surfaces
	err = fs.ReadJSON(bucket, "runs/run01/nope.json", &missing, false)
	if err == nil || !fs.IsNotFoundError(err) {
		t.Errorf("expected not-found error, got %v", err)
	}

	if err := fs.CopyObject(bucket, "runs/run01/meta.json", bucket, "runs/run02/meta.json"); err != nil {
		t.Fatalf("CopyObject: %v", err)
	}
	copied, err := fs.ReadObject(bucket, "runs/run02/meta.json")
	if err != nil || len(copied) == 0 {
		t.Errorf("copy target unreadable: %v", err)
	}

	if err := fs.DeleteObject(bucket, "runs/run01/tiles/t0.raw"); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
	if _, err := fs.ReadObject(bucket, "runs/run01/tiles/t0.raw"); err == nil {
		t.Errorf("object readable after delete")
	}

	if err := fs.WriteJSONNoIndent(bucket, "runs/run01/flat.json", record); err != nil {
		t.Fatalf("WriteJSONNoIndent: %v", err)
	}
	flat, err := fs.ReadObject(bucket, "runs/run01/flat.json")
	if err != nil {
		t.Fatalf("%v", err)
	}
	if strings.Contains(strings.TrimSpace(string(flat)), "\n") {
		t.Errorf("no-indent JSON spans lines: %q", flat)
	}

	if err := fs.EmptyObjects(bucket); err != nil {
		t.Fatalf("EmptyObjects: %v", err)
	}
	listed, err = fs.ListObjects(bucket, "")
	if err != nil {
		t.Fatalf("ListObjects after empty: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("bucket not emptied: %v", listed)
	}
}

func TestFSAccess(t *testing.T) {
	runFileAccessSuite(t, &FSAccess{}, t.TempDir())
}

func TestMemoryAccess(t *testing.T) {
	runFileAccessSuite(t, MakeMemoryAccess(), "unit-test-bucket")
}

func TestMakeValidObjectName(t *testing.T) {
	if got := MakeValidObjectName(`run#3/EM?'sect"1'`); got != "run3_EMsect1" {
		t.Errorf("got %v", got)
	}
}

func TestIsValidObjectName(t *testing.T) {
	if IsValidObjectName("") {
		t.Errorf("empty name accepted")
	}
	if IsValidObjectName(`bad"name`) {
		t.Errorf("quoted name accepted")
	}
	if !IsValidObjectName("run01_S003") {
		t.Errorf("good name rejected")
	}
}
