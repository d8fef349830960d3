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

package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/clemtools/icat/core/config"
	"github.com/clemtools/icat/core/logger"
)

// Sentry transport keeping events in memory instead of sending them
type recordingTransport struct {
	events []*sentry.Event
}

func (t *recordingTransport) Configure(options sentry.ClientOptions) {}
func (t *recordingTransport) SendEvent(event *sentry.Event) {
	t.events = append(t.events, event)
}
func (t *recordingTransport) Flush(timeout time.Duration) bool {
	return true
}

func TestReportFatalCapturesToSentry(t *testing.T) {
	transport := &recordingTransport{}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:       "https://key@sentry.invalid/1",
		Transport: transport,
	}); err != nil {
		t.Fatalf("sentry init: %v", err)
	}

	svcs := Services{
		Config: config.ToolConfig{SentryEndpoint: "https://key@sentry.invalid/1"},
		Log:    &logger.NullLogger{},
	}
	svcs.reportFatal(fmt.Errorf("stack import failed"))

	if len(transport.events) != 1 {
		t.Fatalf("sentry saw %v events", len(transport.events))
	}
	event := transport.events[0]
	if len(event.Exception) == 0 || event.Exception[0].Value != "stack import failed" {
		t.Errorf("captured event: %+v", event)
	}

	// Without an endpoint configured nothing gets captured
	svcs.Config.SentryEndpoint = ""
	svcs.reportFatal(fmt.Errorf("quiet failure"))
	if len(transport.events) != 1 {
		t.Errorf("event captured with no endpoint configured")
	}
}

func TestMakeLoggerDestination(t *testing.T) {
	if _, ok := makeLogger(config.ToolConfig{LogLevel: logger.LogInfo}).(*logger.StdOutLogger); !ok {
		t.Errorf("default logger is not stdout")
	}
	if _, ok := makeLogger(config.ToolConfig{LogLevel: logger.LogInfo, LogStdErr: true}).(*logger.StdErrLogger); !ok {
		t.Errorf("LogStdErr logger is not stderr")
	}
}
