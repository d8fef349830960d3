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

package odemis

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"
	"time"
)

// makeTIFF builds a minimal single-IFD TIFF whose only entry is an
// ImageDescription holding desc
func makeTIFF(desc string, order binary.ByteOrder) []byte {
	value := append([]byte(desc), 0)

	buf := &bytes.Buffer{}
	if order == binary.LittleEndian {
		buf.WriteString("II")
	} else {
		buf.WriteString("MM")
	}
	binary.Write(buf, order, uint16(42))
	binary.Write(buf, order, uint32(8)) // IFD right after the header

	// IFD: one entry, then the next-IFD terminator, then the value
	binary.Write(buf, order, uint16(1))
	binary.Write(buf, order, uint16(tagImageDescription))
	binary.Write(buf, order, uint16(2)) // ASCII
	binary.Write(buf, order, uint32(len(value)))
	valueOffset := uint32(8 + 2 + 12 + 4)
	binary.Write(buf, order, valueOffset)
	binary.Write(buf, order, uint32(0))
	buf.Write(value)

	return buf.Bytes()
}

const tileXML = `<?xml version="1.0" encoding="UTF-8"?>
<OME xmlns="http://www.openmicroscopy.org/Schemas/OME/2016-06">
  <Instrument>
    <Microscope Model="SECOM"/>
    <Detector Model="Zyla 5.5"/>
  </Instrument>
  <Image>
    <AcquisitionDate>2020-05-14T10:30:00</AcquisitionDate>
    <Pixels PhysicalSizeX="0.005" PhysicalSizeY="0.005" SizeX="4096" SizeY="4096">
      <Plane PositionX="1.5e-4" PositionY="-2.5e-4"/>
    </Pixels>
  </Image>
</OME>`

func TestReadImageDescription(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		tiff := makeTIFF(tileXML, order)
		desc, err := ReadImageDescription(bytes.NewReader(tiff))
		if err != nil {
			t.Fatalf("%v: %v", order, err)
		}
		if desc != tileXML {
			t.Errorf("%v: description mismatch", order)
		}
	}
}

func TestReadImageDescriptionRejectsNonTIFF(t *testing.T) {
	if _, err := ReadImageDescription(bytes.NewReader([]byte("PNG\r\n\x1a\n....."))); err == nil {
		t.Errorf("expected error for non-TIFF data")
	}
}

func TestParseTileMeta(t *testing.T) {
	meta, err := ParseTileMeta(tileXML, "/data/tiles/tile_20-001x002.ome.tiff", "S003")
	if err != nil {
		t.Fatalf("%v", err)
	}

	if meta.SectionID != "S003" {
		t.Errorf("sectionId: %v", meta.SectionID)
	}
	if meta.ScopeID != "SECOM" || meta.CameraID != "Zyla 5.5" {
		t.Errorf("instrument: %v / %v", meta.ScopeID, meta.CameraID)
	}
	if meta.ImageCol != 1 || meta.ImageRow != 2 {
		t.Errorf("grid position: col=%v row=%v, want 1, 2", meta.ImageCol, meta.ImageRow)
	}
	if meta.StageX != 150 || meta.StageY != -250 {
		t.Errorf("stage: %v,%v um, want 150,-250", meta.StageX, meta.StageY)
	}
	if meta.Pixelsize != 5 {
		t.Errorf("pixelsize: %v nm, want 5", meta.Pixelsize)
	}
	if meta.Z != 3 {
		t.Errorf("z: %v, want 3", meta.Z)
	}
	if meta.Width != 4096 || meta.Height != 4096 {
		t.Errorf("size: %vx%v", meta.Width, meta.Height)
	}
	if meta.MinIntensity != 0 || meta.MaxIntensity != 65535 {
		t.Errorf("intensity range: %v..%v", meta.MinIntensity, meta.MaxIntensity)
	}
	if meta.TileID != "tile_20-S003-00001x00002" {
		t.Errorf("tileId: %v", meta.TileID)
	}
	if meta.ImageURL != "file:///data/tiles/tile_20-001x002.ome.tiff" {
		t.Errorf("imageUrl: %v", meta.ImageURL)
	}

	wantAcq := time.Date(2020, 5, 14, 10, 30, 0, 0, time.UTC)
	if !meta.AcqTime.Equal(wantAcq) {
		t.Errorf("acqTime: %v, want %v", meta.AcqTime, wantAcq)
	}
}

func TestParseTileMetaBadFileName(t *testing.T) {
	if _, err := ParseTileMeta(tileXML, "/data/tiles/overview.tiff", "S003"); err == nil {
		t.Errorf("expected error for file name without grid position")
	}
}

func fmXML(theta float64) string {
	c, s := math.Cos(theta), math.Sin(theta)
	return fmt.Sprintf(`<?xml version="1.0"?>
<OME>
  <Image>
    <Pixels PhysicalSizeX="0.1" PhysicalSizeY="0.1" SizeX="1024" SizeY="1024">
      <Plane PositionX="5e-8" PositionY="5e-8"/>
      <Transform A00="%v" A01="%v" A10="%v" A11="%v"/>
    </Pixels>
  </Image>
</OME>`, c, s, -s, c)
}

func TestParseModalityParams(t *testing.T) {
	params, err := ParseModalityParams(fmXML(0.1))
	if err != nil {
		t.Fatalf("%v", err)
	}

	if math.Abs(params.PixelSizeX-1e-7) > 1e-20 || math.Abs(params.PixelSizeY-1e-7) > 1e-20 {
		t.Errorf("pixel size: %v,%v m, want 1e-7", params.PixelSizeX, params.PixelSizeY)
	}
	if math.Abs(params.Rotation-0.1) > 1e-9 {
		t.Errorf("rotation: %v, want 0.1", params.Rotation)
	}
	if math.Abs(params.Shear) > 1e-9 {
		t.Errorf("shear: %v, want 0", params.Shear)
	}
	if params.TranslationX != 5e-8 || params.TranslationY != 5e-8 {
		t.Errorf("translation: %v,%v", params.TranslationX, params.TranslationY)
	}
}

func TestParseModalityParamsMissingTransform(t *testing.T) {
	if _, err := ParseModalityParams(tileXML); err == nil {
		t.Errorf("expected error when metadata carries no Transform element")
	}
}
