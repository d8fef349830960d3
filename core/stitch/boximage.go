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

// Rendering overview images out of the tile server. The server refuses or
// times out on very large bounding boxes, so the box renderer carries a
// manual fallback that partitions the box into tile-sized pieces and
// stitches them client side. It is deliberately not a retry policy: only a
// status error from the server triggers partitioning, transport errors
// surface as-is.
package stitch

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/clemtools/icat/core/errorwithstatus"
	"github.com/clemtools/icat/core/renderws"
)

// BoxImage - renders bbox at z scaled to width pixels, partitioning into
// tile-sized sub-boxes when the server refuses the whole box
func BoxImage(sess renderws.Session, stack string, z float64, box renderws.Bounds, width int) (image.Image, error) {
	img, err := sess.RenderBoxImage(stack, z, box, width)
	if err == nil {
		return img, nil
	}

	statusErr, isStatus := err.(errorwithstatus.Error)
	if !isStatus {
		return nil, err
	}
	sess.Log.Infof("Box render of %v z=%v failed with status %v, falling back to partitioned render", stack, z, statusErr.Status())

	return partitionedBoxImage(sess, stack, z, box, width)
}

func partitionedBoxImage(sess renderws.Session, stack string, z float64, box renderws.Bounds, width int) (image.Image, error) {
	subW, subH, err := meanTileSize(sess, stack, z, box)
	if err != nil {
		return nil, err
	}

	scale := float64(width) / box.Width()
	height := int(math.Round(box.Height() * scale))
	mosaic := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := box.MinY; y < box.MaxY; y += subH {
		for x := box.MinX; x < box.MaxX; x += subW {
			sub := renderws.Bounds{
				MinX: x,
				MinY: y,
				MaxX: math.Min(x+subW, box.MaxX),
				MaxY: math.Min(y+subH, box.MaxY),
			}

			// Sub-boxes render at full resolution, the scaler brings them
			// down to their slot in the mosaic
			subImg, err := sess.RenderBoxImage(stack, z, sub, int(math.Round(sub.Width())))
			if err != nil {
				return nil, fmt.Errorf("partitioned render of %v z=%v sub-box %v,%v failed: %v", stack, z, x, y, err)
			}

			slot := image.Rect(
				int(math.Round((sub.MinX-box.MinX)*scale)),
				int(math.Round((sub.MinY-box.MinY)*scale)),
				int(math.Round((sub.MaxX-box.MinX)*scale)),
				int(math.Round((sub.MaxY-box.MinY)*scale)),
			)

			if slot.Dx() == subImg.Bounds().Dx() && slot.Dy() == subImg.Bounds().Dy() {
				draw.Draw(mosaic, slot, subImg, subImg.Bounds().Min, draw.Src)
			} else {
				xdraw.BiLinear.Scale(mosaic, slot, subImg, subImg.Bounds(), xdraw.Src, nil)
			}
		}
	}

	return mosaic, nil
}

// meanTileSize - mean raw dimensions of the tiles the server would render
// for the box, the partition step size
func meanTileSize(sess renderws.Session, stack string, z float64, box renderws.Bounds) (float64, float64, error) {
	specs, err := sess.GetTileSpecsInBox(stack, z, box, 1)
	if err != nil {
		return 0, 0, err
	}
	if len(specs) == 0 {
		return 0, 0, fmt.Errorf("no tiles in box %+v in %v z=%v", box, stack, z)
	}

	var sumW, sumH float64
	for _, spec := range specs {
		sumW += float64(spec.Width)
		sumH += float64(spec.Height)
	}

	// A zero step would stall the partition loops
	if sumW <= 0 || sumH <= 0 {
		return 0, 0, fmt.Errorf("tiles in box %+v in %v z=%v report no dimensions", box, stack, z)
	}
	return sumW / float64(len(specs)), sumH / float64(len(specs)), nil
}

// TilesetImage - renders the whole tileset at one z
func TilesetImage(sess renderws.Session, stack string, z float64, width int) (image.Image, error) {
	bounds, err := sess.GetBoundsForZ(stack, z)
	if err != nil {
		return nil, err
	}
	return BoxImage(sess, stack, z, bounds, width)
}

// StackImages - tileset images for every z of a stack, all rendered over
// the full stack bounds so they line up
func StackImages(sess renderws.Session, stack string, width int) (map[float64]image.Image, error) {
	zValues, err := sess.GetZValues(stack)
	if err != nil {
		return nil, err
	}
	bounds, err := sess.GetStackBounds(stack)
	if err != nil {
		return nil, err
	}

	images := map[float64]image.Image{}
	for _, z := range zValues {
		img, err := BoxImage(sess, stack, z, bounds, width)
		if err != nil {
			return nil, err
		}
		images[z] = img
	}
	return images, nil
}

// NeighborhoodImage - renders a tile plus n tile-widths of its surroundings
func NeighborhoodImage(sess renderws.Session, stack string, tileID string, n int, width int) (image.Image, error) {
	spec, err := sess.GetTileSpec(stack, tileID)
	if err != nil {
		return nil, err
	}

	tileBounds, err := sess.GetTileBounds(stack, spec.Z)
	if err != nil {
		return nil, err
	}
	tb, ok := tileBounds[tileID]
	if !ok {
		return nil, errorwithstatus.MakeNotFoundError(fmt.Sprintf("bounds of tile %v at z=%v", tileID, spec.Z))
	}

	box := renderws.Bounds{
		MinX: tb.MinX - float64(n)*tb.Width(),
		MinY: tb.MinY - float64(n)*tb.Height(),
		MaxX: tb.MaxX + float64(n)*tb.Width(),
		MaxY: tb.MaxY + float64(n)*tb.Height(),
	}
	return BoxImage(sess, stack, spec.Z, box, width)
}
