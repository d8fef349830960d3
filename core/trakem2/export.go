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

// TrakEM2 project file interchange. Stacks export to the XML project format
// the Fiji TrakEM2 plugin opens directly, one t2_layer per z with a
// t2_patch per tile carrying the fully concatenated affine. Projects saved
// out of TrakEM2 after manual alignment import back as fresh stacks.
package trakem2

import (
	"fmt"
	"math/rand"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/clemtools/icat/core/fileaccess"
	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/transform"
)

var tileIDDigits = regexp.MustCompile(`\d+`)

// ExportProject - writes a TrakEM2 project XML for a stack. zValues nil
// means every z in the stack. The file goes through FileAccess so projects
// can land on local disk or S3.
func ExportProject(sess renderws.Session, stack string, fs fileaccess.FileAccess, bucket string, filePath string, zValues []float64) error {
	bounds, err := sess.GetStackBounds(stack)
	if err != nil {
		return err
	}
	if zValues == nil {
		zValues, err = sess.GetZValues(stack)
		if err != nil {
			return err
		}
	}

	var xml strings.Builder
	xml.WriteString(xmlHeader)
	xml.WriteString(projectHeaderXML(filePath))
	xml.WriteString(layerSetXML(bounds.Width(), bounds.Height()))

	for _, z := range zValues {
		specs, err := sess.GetTileSpecsForZ(stack, z)
		if err != nil {
			return err
		}

		layer, err := layerXML(z, specs)
		if err != nil {
			return err
		}
		xml.WriteString(layer)
	}

	xml.WriteString(xmlFooter)

	return fs.WriteObject(bucket, filePath, []byte(xml.String()))
}

// randomDigits - random integer with the given number of decimal digits
func randomDigits(n int) int64 {
	lower := int64(1)
	for i := 1; i < n; i++ {
		lower *= 10
	}
	return lower + rand.Int63n(lower*9)
}

func projectHeaderXML(filePath string) string {
	unuid := fmt.Sprintf("%v.%v.%v", randomDigits(13), randomDigits(9), randomDigits(10))
	dir := path.Dir(filePath)
	return fmt.Sprintf(`        unuid="%v"
        mipmaps_folder="%v/trakem2.%v/trakem2.mipmaps/"
        storage_folder="%v/"
        mipmaps_format="4"
        image_resizing_mode="Area downsampling"
    >
    </project>`, unuid, dir, unuid, dir)
}

func layerSetXML(width float64, height float64) string {
	return fmt.Sprintf(`
    <t2_layer_set
        oid="3"
        width="%.1f"
        height="%.1f"
        transform="matrix(1.0,0.0,0.0,1.0,0.0,0.0)"
        title="Top Level"
        links=""
        layer_width="%.1f"
        layer_height="%.1f"
        rot_x="0.0"
        rot_y="0.0"
        rot_z="0.0"
        snapshots_quality="true"
        snapshots_mode="Full"
        color_cues="true"
        area_color_cues="true"
        avoid_color_cue_colors="false"
        n_layers_color_cue="0"
        paint_arrows="true"
        paint_tags="true"
        paint_edge_confidence_boxes="true"
        prepaint="false"
        preload_ahead="0"
    >`, width, height, width, height)
}

func layerXML(z float64, specs []renderws.TileSpec) (string, error) {
	var layer strings.Builder
	fmt.Fprintf(&layer, `
        <t2_layer
            oid="%.0f"
            thickness="1.0"
            z="%.1f"
            title="layer_%.0f"
        >`, z, z, z)

	for _, spec := range specs {
		patch, err := patchXML(spec)
		if err != nil {
			return "", err
		}
		layer.WriteString(patch)
	}

	layer.WriteString(`
        </t2_layer>`)
	return layer.String(), nil
}

func patchXML(spec renderws.TileSpec) (string, error) {
	composed, err := spec.Transforms.ComposedAffine()
	if err != nil {
		return "", fmt.Errorf("tile %v: %v", spec.TileID, err)
	}

	oid, err := patchOID(spec.TileID, spec.Z)
	if err != nil {
		return "", err
	}

	// TrakEM2 wants a bare filesystem path
	filePath := spec.ImageURL()
	if idx := strings.Index(filePath, "://"); idx >= 0 {
		filePath = filePath[idx+3:]
	}

	return fmt.Sprintf(`
            <t2_patch
                oid="%v"
                width="%v"
                height="%v"
                transform="%v"
                links=""
                type="1"
                file_path="%v"
                title="%v"
                style="fill-opacity:1.0;stroke:#ffff00;"
                o_width="%v"
                o_height="%v"
                min="%v"
                max="%v"
                mres="32"
            >
            </t2_patch>`,
		oid,
		spec.Width, spec.Height,
		matrixString(composed),
		filePath, spec.TileID,
		spec.Width, spec.Height,
		spec.MinIntensity, spec.MaxIntensity), nil
}

// patchOID - z then zero-padded col and row, so oids stay unique per layer
func patchOID(tileID string, z float64) (string, error) {
	digits := tileIDDigits.FindAllString(tileID, -1)
	if len(digits) < 2 {
		return "", fmt.Errorf("tile id %v has no col/row digits for patch oid", tileID)
	}
	col, _ := strconv.Atoi(digits[len(digits)-2])
	row, _ := strconv.Atoi(digits[len(digits)-1])
	return fmt.Sprintf("%.0f%02d%02d", z, col, row), nil
}

// matrixString - TrakEM2 stores affines column-major
func matrixString(a transform.Affine) string {
	return fmt.Sprintf("matrix(%v,%v,%v,%v,%v,%v)",
		formatFloat(a.M[0][0]), formatFloat(a.M[1][0]),
		formatFloat(a.M[0][1]), formatFloat(a.M[1][1]),
		formatFloat(a.M[0][2]), formatFloat(a.M[1][2]))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

const xmlFooter = `
    </t2_layer_set>
</trakem2>
`
