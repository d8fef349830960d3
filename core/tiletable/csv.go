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

package tiletable

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/clemtools/icat/core/fileaccess"
	"github.com/clemtools/icat/core/transform"
)

// Fixed column order, shared between writer and reader. The transform column
// holds the composed affine in the same "m00 m10 m01 m11 tx ty" data string
// the tile server uses.
var csvHeader = []string{
	"stack", "tileId", "z",
	"width", "height", "minIntensity", "maxIntensity",
	"sectionId", "scopeId", "cameraId", "imageRow", "imageCol",
	"stageX", "stageY", "pixelsize",
	"imageUrl", "transformCount", "transform",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV - writes rows through the file access layer, so tables can land
// next to the acquisition run whether that is a local dir or S3
func WriteCSV(fs fileaccess.FileAccess, bucket string, path string, rows []Row) error {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Stack, row.TileID, formatFloat(row.Z),
			strconv.Itoa(row.Width), strconv.Itoa(row.Height),
			strconv.Itoa(row.MinIntensity), strconv.Itoa(row.MaxIntensity),
			row.SectionID, row.ScopeID, row.CameraID,
			strconv.Itoa(row.ImageRow), strconv.Itoa(row.ImageCol),
			formatFloat(row.StageX), formatFloat(row.StageY), formatFloat(row.Pixelsize),
			row.ImageURL, strconv.Itoa(row.TransformCount), row.Transform.String(),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return fs.WriteObject(bucket, path, buf.Bytes())
}

// ReadCSV - reads back a table written by WriteCSV
func ReadCSV(fs fileaccess.FileAccess, bucket string, path string) ([]Row, error) {
	data, err := fs.ReadObject(bucket, path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("tile table %v is empty", path)
	}
	if len(records[0]) != len(csvHeader) {
		return nil, fmt.Errorf("tile table %v has %v columns, expected %v", path, len(records[0]), len(csvHeader))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row, err := parseCSVRecord(record)
		if err != nil {
			return nil, fmt.Errorf("tile table %v: %v", path, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseCSVRecord(record []string) (Row, error) {
	row := Row{}

	var err error
	atoi := func(s string) int {
		if err != nil {
			return 0
		}
		v, convErr := strconv.Atoi(s)
		err = convErr
		return v
	}
	atof := func(s string) float64 {
		if err != nil {
			return 0
		}
		v, convErr := strconv.ParseFloat(s, 64)
		err = convErr
		return v
	}

	row.Stack = record[0]
	row.TileID = record[1]
	row.Z = atof(record[2])
	row.Width = atoi(record[3])
	row.Height = atoi(record[4])
	row.MinIntensity = atoi(record[5])
	row.MaxIntensity = atoi(record[6])
	row.SectionID = record[7]
	row.ScopeID = record[8]
	row.CameraID = record[9]
	row.ImageRow = atoi(record[10])
	row.ImageCol = atoi(record[11])
	row.StageX = atof(record[12])
	row.StageY = atof(record[13])
	row.Pixelsize = atof(record[14])
	row.ImageURL = record[15]
	row.TransformCount = atoi(record[16])
	if err != nil {
		return row, err
	}

	row.Transform, err = transform.ParseAffineString(record[17])
	return row, err
}
