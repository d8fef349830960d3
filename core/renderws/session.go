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

// Client for the render-ws tile server. Every call goes through a Session
// value naming the host, owner and project, so there is no hidden global
// connection state and two servers can be talked to side by side.
package renderws

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/clemtools/icat/core/errorwithstatus"
	"github.com/clemtools/icat/core/logger"
)

type Session struct {
	Host    string // eg http://localhost:8080
	Owner   string
	Project string

	Client *http.Client
	Log    logger.ILogger
}

func MakeSession(host string, owner string, project string, timeoutSec int32, log logger.ILogger) Session {
	return Session{
		Host:    host,
		Owner:   owner,
		Project: project,
		Client:  &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		Log:     log,
	}
}

// ownerURL - /render-ws/v1/owner/{owner} plus whatever follows
func (s Session) ownerURL(format string, a ...interface{}) string {
	return fmt.Sprintf("%v/render-ws/v1/owner/%v", s.Host, s.Owner) + fmt.Sprintf(format, a...)
}

// stackURL - .../project/{project}/stack/{stack} plus whatever follows
func (s Session) stackURL(stack string, format string, a ...interface{}) string {
	return s.ownerURL("/project/%v/stack/%v", s.Project, stack) + fmt.Sprintf(format, a...)
}

// getJSON - GET a URL, decode the JSON response into out. Non-2xx responses
// come back as errorwithstatus.StatusError so callers can branch on the code
// (the partitioned bbox fallback relies on this).
func (s Session) getJSON(url string, out interface{}) error {
	body, err := s.getBytes(url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %v", url)
	}
	return nil
}

func (s Session) getBytes(url string) ([]byte, error) {
	s.Log.Debugf("GET %v", url)

	resp, err := s.Client.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %v", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %v", url)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorwithstatus.MakeStatusError(resp.StatusCode, fmt.Errorf("GET %v: %v", url, resp.Status))
	}

	return body, nil
}

func (s Session) putJSON(url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "encoding request for %v", url)
	}

	return s.send("PUT", url, body)
}

func (s Session) send(method string, url string, body []byte) error {
	s.Log.Debugf("%v %v", method, url)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return errors.Wrapf(err, "%v %v", method, url)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%v %v", method, url)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorwithstatus.MakeStatusError(resp.StatusCode, fmt.Errorf("%v %v: %v", method, url, resp.Status))
	}

	return nil
}

func (s Session) delete(url string) error {
	return s.send("DELETE", url, nil)
}
