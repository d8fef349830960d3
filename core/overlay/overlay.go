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

// CLEM overlay registration: computing the transform that places a
// fluorescence (FM) tile over its electron microscopy (EM) counterpart,
// either from the metadata both modalities report or by fitting against a
// calibration grid.
package overlay

import (
	"github.com/clemtools/icat/core/odemis"
	"github.com/clemtools/icat/core/transform"
)

// RelativeTransform - composes the EM<->FM overlay transform from both
// modalities' reported parameters
func RelativeTransform(em transform.ModalityParams, fm transform.ModalityParams, order transform.CompositionOrder) transform.Affine {
	return transform.Relative(em, fm, order)
}

// RelativeTransformFromFiles - reads both tiles' metadata and composes the
// relative transform mapping FM pixels into EM pixel space
func RelativeTransformFromFiles(emPath string, fmPath string, order transform.CompositionOrder) (transform.Affine, error) {
	em, err := odemis.ReadModalityParams(emPath)
	if err != nil {
		return transform.Affine{}, err
	}

	fm, err := odemis.ReadModalityParams(fmPath)
	if err != nil {
		return transform.Affine{}, err
	}

	return transform.Relative(em, fm, order), nil
}
