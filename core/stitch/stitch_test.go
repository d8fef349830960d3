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

package stitch

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/clemtools/icat/core/logger"
	"github.com/clemtools/icat/core/renderws"
)

// boxServer - a tile server holding a 2x2 grid of 500x500 tiles over a
// 1000x1000 stack. Box renders of 1000 or more pixels across are refused,
// so whole-stack renders force the partitioned fallback. Each rendered box
// is filled with a gray value identifying which quadrant it came from, so
// mosaics can be checked for correct placement.
type boxServer struct {
	router      *mux.Router
	renderCalls int
	specSize    int
}

func quadrantValue(x float64, y float64) uint8 {
	v := uint8(50)
	if x >= 500 {
		v += 50
	}
	if y >= 500 {
		v += 100
	}
	return v
}

func makeBoxServer() *boxServer {
	bs := &boxServer{router: mux.NewRouter(), specSize: 500}

	stack := bs.router.PathPrefix("/render-ws/v1/owner/{owner}/project/{project}/stack/{stack}").Subrouter()

	stack.HandleFunc("/bounds", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(renderws.Bounds{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000, MinZ: 1, MaxZ: 1})
	}).Methods("GET")

	stack.HandleFunc("/zValues", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]float64{1})
	}).Methods("GET")

	stack.HandleFunc("/z/{z}/bounds", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(renderws.Bounds{MinX: 0, MinY: 0, MaxX: 500, MaxY: 500})
	}).Methods("GET")

	stack.HandleFunc("/z/{z}/tileBounds", func(w http.ResponseWriter, r *http.Request) {
		type tileBounds struct {
			TileID string  `json:"tileId"`
			MinX   float64 `json:"minX"`
			MinY   float64 `json:"minY"`
			MaxX   float64 `json:"maxX"`
			MaxY   float64 `json:"maxY"`
		}
		json.NewEncoder(w).Encode([]tileBounds{
			{TileID: "t00", MinX: 0, MinY: 0, MaxX: 500, MaxY: 500},
			{TileID: "t10", MinX: 500, MinY: 0, MaxX: 1000, MaxY: 500},
			{TileID: "t01", MinX: 0, MinY: 500, MaxX: 500, MaxY: 1000},
			{TileID: "t11", MinX: 500, MinY: 500, MaxX: 1000, MaxY: 1000},
		})
	}).Methods("GET")

	stack.HandleFunc("/z/{z}/box/{box}/render-parameters", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(struct {
			TileSpecs []renderws.TileSpec `json:"tileSpecs"`
		}{
			TileSpecs: []renderws.TileSpec{
				{TileID: "t00", Z: 1, Width: bs.specSize, Height: bs.specSize},
				{TileID: "t10", Z: 1, Width: bs.specSize, Height: bs.specSize},
				{TileID: "t01", Z: 1, Width: bs.specSize, Height: bs.specSize},
				{TileID: "t11", Z: 1, Width: bs.specSize, Height: bs.specSize},
			},
		})
	}).Methods("GET")

	stack.HandleFunc("/tile/{tileId}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(renderws.TileSpec{TileID: mux.Vars(r)["tileId"], Z: 1, Width: 500, Height: 500})
	}).Methods("GET")

	stack.HandleFunc("/z/{z}/box/{box}/png-image", func(w http.ResponseWriter, r *http.Request) {
		bs.renderCalls++

		parts := strings.Split(mux.Vars(r)["box"], ",")
		x, _ := strconv.ParseFloat(parts[0], 64)
		y, _ := strconv.ParseFloat(parts[1], 64)
		boxW, _ := strconv.ParseFloat(parts[2], 64)
		boxH, _ := strconv.ParseFloat(parts[3], 64)
		scale, _ := strconv.ParseFloat(parts[4], 64)

		if boxW >= 1000 || boxH >= 1000 {
			http.Error(w, "box too large", http.StatusBadRequest)
			return
		}

		img := image.NewGray(image.Rect(0, 0, int(math.Round(boxW*scale)), int(math.Round(boxH*scale))))
		fill := quadrantValue(x, y)
		for i := range img.Pix {
			img.Pix[i] = fill
		}
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, img)
	}).Methods("GET")

	return bs
}

func makeBoxSession(t *testing.T) (renderws.Session, *boxServer, func()) {
	bs := makeBoxServer()
	server := httptest.NewServer(bs.router)
	sess := renderws.MakeSession(server.URL, "clem", "proj", 10, &logger.NullLogger{})
	return sess, bs, server.Close
}

func TestBoxImageDirect(t *testing.T) {
	sess, bs, done := makeBoxSession(t)
	defer done()

	img, err := BoxImage(sess, "fm_stack", 1, renderws.Bounds{MinX: 0, MinY: 0, MaxX: 500, MaxY: 500}, 50)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("image size: %v", img.Bounds())
	}
	if bs.renderCalls != 1 {
		t.Errorf("render calls: %v, want 1", bs.renderCalls)
	}
}

func TestBoxImagePartitionFallback(t *testing.T) {
	sess, bs, done := makeBoxSession(t)
	defer done()

	img, err := BoxImage(sess, "fm_stack", 1, renderws.Bounds{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000}, 100)
	if err != nil {
		t.Fatalf("%v", err)
	}

	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Fatalf("mosaic size: %v", img.Bounds())
	}
	// One refused whole-box render, then one per tile-sized sub-box
	if bs.renderCalls != 5 {
		t.Errorf("render calls: %v, want 5", bs.renderCalls)
	}

	// Each quadrant of the mosaic carries its sub-box's fill value
	checks := []struct {
		x, y int
		want uint8
	}{
		{25, 25, 50},
		{75, 25, 100},
		{25, 75, 150},
		{75, 75, 200},
	}
	for _, c := range checks {
		got := color.RGBAModel.Convert(img.At(c.x, c.y)).(color.RGBA)
		if got.R != c.want {
			t.Errorf("mosaic at %v,%v: %v, want %v", c.x, c.y, got.R, c.want)
		}
	}
}

func TestBoxImagePartitionZeroTileSize(t *testing.T) {
	sess, bs, done := makeBoxSession(t)
	defer done()

	// Specs without dimensions must fail the fallback, not loop forever on a
	// zero partition step
	bs.specSize = 0
	_, err := BoxImage(sess, "fm_stack", 1, renderws.Bounds{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000}, 100)
	if err == nil {
		t.Errorf("expected error for zero mean tile size")
	}
}

func TestTilesetImage(t *testing.T) {
	sess, _, done := makeBoxSession(t)
	defer done()

	img, err := TilesetImage(sess, "fm_stack", 1, 40)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 40 {
		t.Errorf("image size: %v", img.Bounds())
	}
}

func TestStackImages(t *testing.T) {
	sess, _, done := makeBoxSession(t)
	defer done()

	images, err := StackImages(sess, "em_stack", 100)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(images) != 1 {
		t.Fatalf("got images for %v z values", len(images))
	}
	if img := images[1]; img.Bounds().Dx() != 100 {
		t.Errorf("z=1 image size: %v", img.Bounds())
	}
}

func TestNeighborhoodImage(t *testing.T) {
	sess, bs, done := makeBoxSession(t)
	defer done()

	// n=0 renders just the tile's own bounds
	img, err := NeighborhoodImage(sess, "em_stack", "t00", 0, 50)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if img.Bounds().Dx() != 50 {
		t.Errorf("image size: %v", img.Bounds())
	}
	if bs.renderCalls != 1 {
		t.Errorf("render calls: %v, want 1", bs.renderCalls)
	}
}

func TestNeighborhoodImageUnknownTile(t *testing.T) {
	sess, _, done := makeBoxSession(t)
	defer done()

	if _, err := NeighborhoodImage(sess, "em_stack", "t99", 1, 50); err == nil {
		t.Errorf("expected error for tile with no bounds")
	}
}

func TestColorizePrimary(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 0})
	gray.SetGray(1, 0, color.Gray{Y: 255})

	out := Colorize(gray, TGreen)

	if got := out.RGBAAt(0, 0); got != (color.RGBA{0, 0, 0, 0}) {
		t.Errorf("dark pixel: %+v", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("bright pixel: %+v", got)
	}
}

func TestColorizeHoechst(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.SetGray(0, 0, color.Gray{Y: 0})
	gray.SetGray(1, 0, color.Gray{Y: 255})

	out := Colorize(gray, THoechst)

	// Brightest transformed channel is alpha at 1.4, so the joint rescale
	// maps blue 1.0 to 182 and red/green 0.2 to 36
	if got := out.RGBAAt(1, 0); got != (color.RGBA{36, 36, 182, 255}) {
		t.Errorf("bright pixel: %+v", got)
	}
}
