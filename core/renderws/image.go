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

package renderws

import (
	"bytes"
	"image"
	"image/png"

	"github.com/pkg/errors"
)

// RenderBoxImage - has the server render the given bounding box at z,
// scaled so the result is width pixels across. Large boxes can make the
// server refuse or time out; callers wanting a fallback should use the
// stitch package, which partitions on StatusError.
func (s Session) RenderBoxImage(stack string, z float64, box Bounds, width int) (image.Image, error) {
	scale := float64(width) / box.Width()

	url := s.stackURL(stack, "/z/%v/box/%v,%v,%v,%v,%v/png-image",
		z, box.MinX, box.MinY, box.Width(), box.Height(), scale)

	data, err := s.getBytes(url)
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding box image from %v", url)
	}
	return img, nil
}
