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

// Parses the metadata the Odemis acquisition software embeds in its
// (single-page) OME-TIFF tile files. We only walk the TIFF structure far
// enough to pull out the ImageDescription XML blob - pixel data is left to
// the tile server.
package odemis

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"
)

const tagImageDescription = 270

// ReadImageDescription - reads the ImageDescription string from the first
// IFD of a classic TIFF. Handles both little ("II") and big ("MM") endian
// files.
func ReadImageDescription(r io.ReaderAt) (string, error) {
	header := make([]byte, 8)
	if _, err := r.ReadAt(header, 0); err != nil {
		return "", fmt.Errorf("failed to read TIFF header: %v", err)
	}

	var order binary.ByteOrder
	switch string(header[0:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return "", fmt.Errorf("not a TIFF file, bad byte order mark: %q", string(header[0:2]))
	}

	if order.Uint16(header[2:4]) != 42 {
		return "", fmt.Errorf("not a TIFF file, bad magic number")
	}

	ifdOffset := int64(order.Uint32(header[4:8]))

	countBuf := make([]byte, 2)
	if _, err := r.ReadAt(countBuf, ifdOffset); err != nil {
		return "", fmt.Errorf("failed to read IFD: %v", err)
	}
	entryCount := int(order.Uint16(countBuf))

	entries := make([]byte, entryCount*12)
	if _, err := r.ReadAt(entries, ifdOffset+2); err != nil {
		return "", fmt.Errorf("failed to read IFD entries: %v", err)
	}

	for i := 0; i < entryCount; i++ {
		entry := entries[i*12 : i*12+12]
		tag := order.Uint16(entry[0:2])
		if tag != tagImageDescription {
			continue
		}

		count := order.Uint32(entry[4:8])
		if count == 0 {
			return "", nil
		}

		value := make([]byte, count)
		if count <= 4 {
			// Short values are stored inline in the offset field
			copy(value, entry[8:8+count])
		} else {
			valueOffset := int64(order.Uint32(entry[8:12]))
			if _, err := r.ReadAt(value, valueOffset); err != nil {
				return "", fmt.Errorf("failed to read ImageDescription value: %v", err)
			}
		}

		// ASCII values are NUL terminated
		return strings.TrimRight(string(value), "\x00"), nil
	}

	return "", fmt.Errorf("TIFF has no ImageDescription tag")
}

// ReadImageDescriptionFile - as ReadImageDescription, from a file path
func ReadImageDescriptionFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return ReadImageDescription(f)
}
