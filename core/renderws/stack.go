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

// Stack lifecycle: a stack is created (entering LOADING), tile specs are
// imported into it, then it is marked COMPLETE before anything can render
// from it.

func (s Session) CreateStack(stack string, version StackVersion) error {
	return s.putJSON(s.stackURL(stack, ""), version)
}

func (s Session) SetStackState(stack string, state StackState) error {
	return s.send("PUT", s.stackURL(stack, "/state/%v", state), nil)
}

func (s Session) DeleteStack(stack string) error {
	return s.delete(s.stackURL(stack, ""))
}

func (s Session) GetStackInfo(stack string) (StackInfo, error) {
	info := StackInfo{}
	err := s.getJSON(s.stackURL(stack, ""), &info)
	return info, err
}

// GetStackIDs - names of all stacks in the session's project
func (s Session) GetStackIDs() ([]string, error) {
	infos := []StackInfo{}
	err := s.getJSON(s.ownerURL("/stacks"), &infos)
	if err != nil {
		return nil, err
	}

	result := []string{}
	for _, info := range infos {
		if info.StackID.Project == s.Project {
			result = append(result, info.StackID.Stack)
		}
	}
	return result, nil
}

func (s Session) GetStackBounds(stack string) (Bounds, error) {
	bounds := Bounds{}
	err := s.getJSON(s.stackURL(stack, "/bounds"), &bounds)
	return bounds, err
}

func (s Session) GetZValues(stack string) ([]float64, error) {
	zValues := []float64{}
	err := s.getJSON(s.stackURL(stack, "/zValues"), &zValues)
	return zValues, err
}

func (s Session) GetBoundsForZ(stack string, z float64) (Bounds, error) {
	bounds := Bounds{}
	err := s.getJSON(s.stackURL(stack, "/z/%v/bounds", z), &bounds)
	return bounds, err
}
