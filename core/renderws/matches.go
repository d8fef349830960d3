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

// Point match storage. Collections are owner-scoped on the server, not
// project-scoped, hence the ownerURL paths.

type matchCollectionInfo struct {
	CollectionID struct {
		Owner string `json:"owner"`
		Name  string `json:"name"`
	} `json:"collectionId"`
	PairCount int `json:"pairCount"`
}

func (s Session) ListMatchCollections() ([]string, error) {
	infos := []matchCollectionInfo{}
	err := s.getJSON(s.ownerURL("/matchCollections"), &infos)
	if err != nil {
		return nil, err
	}

	result := []string{}
	for _, info := range infos {
		result = append(result, info.CollectionID.Name)
	}
	return result, nil
}

// GetMatchesWithinGroup - all matches where both tiles sit in the same group
// (for montaging, groups are sections)
func (s Session) GetMatchesWithinGroup(collection string, groupID string) ([]CanvasMatches, error) {
	matches := []CanvasMatches{}
	err := s.getJSON(s.ownerURL("/matchCollection/%v/group/%v/matchesWithinGroup", collection, groupID), &matches)
	return matches, err
}

// GetMatchesBetweenGroups - matches crossing two groups (for alignment)
func (s Session) GetMatchesBetweenGroups(collection string, pGroupID string, qGroupID string) ([]CanvasMatches, error) {
	matches := []CanvasMatches{}
	err := s.getJSON(s.ownerURL("/matchCollection/%v/pGroup/%v/matchesWith/%v", collection, pGroupID, qGroupID), &matches)
	return matches, err
}

// StoreMatches - PUT a batch of canvas matches into a collection, creating
// the collection if needed
func (s Session) StoreMatches(collection string, matches []CanvasMatches) error {
	return s.putJSON(s.ownerURL("/matchCollection/%v/matches", collection), matches)
}

func (s Session) DeleteMatchCollection(collection string) error {
	return s.delete(s.ownerURL("/matchCollection/%v", collection))
}
