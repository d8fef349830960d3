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
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// omeFields holds the handful of OME-XML elements we care about. Odemis
// nests these differently between versions (and namespaces vary), so rather
// than bind a rigid schema we scan the token stream and keep the FIRST
// occurrence of each element by local name, case-insensitively.
type omeFields struct {
	pixels     map[string]string
	plane      map[string]string
	transform  map[string]string
	microscope map[string]string
	detector   map[string]string

	acquisitionDate string
}

func attrMap(el xml.StartElement) map[string]string {
	m := map[string]string{}
	for _, a := range el.Attr {
		m[strings.ToLower(a.Name.Local)] = a.Value
	}
	return m
}

func parseOME(desc string) (*omeFields, error) {
	fields := &omeFields{}

	dec := xml.NewDecoder(strings.NewReader(desc))
	inAcqDate := false

	for {
		tok, err := dec.Token()
		if err != nil {
			break // io.EOF or malformed trailing data, we take what we got
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(el.Name.Local)
			switch name {
			case "pixels":
				if fields.pixels == nil {
					fields.pixels = attrMap(el)
				}
			case "plane":
				if fields.plane == nil {
					fields.plane = attrMap(el)
				}
			case "transform":
				if fields.transform == nil {
					fields.transform = attrMap(el)
				}
			case "microscope":
				if fields.microscope == nil {
					fields.microscope = attrMap(el)
				}
			case "detector":
				if fields.detector == nil {
					fields.detector = attrMap(el)
				}
			case "acquisitiondate":
				inAcqDate = fields.acquisitionDate == ""
			}
		case xml.CharData:
			if inAcqDate {
				fields.acquisitionDate += string(el)
			}
		case xml.EndElement:
			if strings.ToLower(el.Name.Local) == "acquisitiondate" {
				inAcqDate = false
			}
		}
	}

	if fields.pixels == nil {
		return nil, fmt.Errorf("OME metadata has no Pixels element")
	}

	return fields, nil
}

// floatAttr - reads a named attribute off one of the parsed element maps.
// elemName is only used in the error message.
func floatAttr(attrs map[string]string, elemName string, name string) (float64, error) {
	if attrs == nil {
		return 0, fmt.Errorf("OME metadata has no %v element", elemName)
	}
	str, ok := attrs[name]
	if !ok {
		return 0, fmt.Errorf("OME %v element has no %v attribute", elemName, name)
	}
	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("OME %v attribute %v: %v", elemName, name, err)
	}
	return val, nil
}

func intAttr(attrs map[string]string, elemName string, name string) (int, error) {
	val, err := floatAttr(attrs, elemName, name)
	if err != nil {
		return 0, err
	}
	return int(val), nil
}
