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
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/clemtools/icat/core/awsutil"
	"github.com/clemtools/icat/core/config"
	"github.com/clemtools/icat/core/fileaccess"
	"github.com/clemtools/icat/core/logger"
	"github.com/clemtools/icat/core/renderws"
	"github.com/clemtools/icat/core/timestamper"
)

// Set during compilation in CI build (see Makefile)
var ToolVersion string
var GitHash string

// Services contains everything the pipeline tools would want to use, like
// logging/config reading/the tile server session. Instead of a bunch of
// global variables we pass this object around, which also makes unit tests
// easy to set up with mocks.
type Services struct {
	// Configuration read in on startup
	Config config.ToolConfig

	// Default logger
	Log logger.ILogger

	// Anything accessing acquisition files should use this
	FS fileaccess.FileAccess

	// Tile server connection for the configured owner/project
	Render renderws.Session

	// Timestamp retriever - so it can be mocked for unit tests
	TimeStamper timestamper.ITimeStamper
}

// InitServices sets up a new Services instance from loaded config
func InitServices(cfg config.ToolConfig) Services {
	ourLogger := makeLogger(cfg)

	var fs fileaccess.FileAccess
	if cfg.UseS3 {
		sess, err := awsutil.GetSession()
		if err != nil {
			log.Fatalf("Failed to create AWS session. Error: %v", err)
		}
		s3svc, err := awsutil.GetS3(sess)
		if err != nil {
			log.Fatalf("Failed to create AWS S3 service. Error: %v", err)
		}
		s3Access := fileaccess.MakeS3Access(s3svc)
		fs = &s3Access
	} else {
		fs = &fileaccess.FSAccess{}
	}

	if len(cfg.SentryEndpoint) > 0 {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryEndpoint,
			Environment: cfg.EnvironmentName,
			Release:     ToolVersion,
		}); err != nil {
			ourLogger.Errorf("Sentry initialization failed: %v", err)
		}
	}

	return Services{
		Config:      cfg,
		Log:         ourLogger,
		FS:          fs,
		Render:      renderws.MakeSession(cfg.RenderHost, cfg.RenderOwner, cfg.RenderProject, cfg.HTTPTimeoutSec, ourLogger),
		TimeStamper: &timestamper.UnixTimeNowStamper{},
	}
}

// Fatalf - logs the error, reports it to Sentry when configured and exits.
// Tools use this for failures after startup so they still reach monitoring.
func (s Services) Fatalf(format string, a ...interface{}) {
	s.reportFatal(fmt.Errorf(format, a...))
	os.Exit(1)
}

func (s Services) reportFatal(err error) {
	s.Log.Errorf("%v", err)
	if len(s.Config.SentryEndpoint) > 0 {
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
	}
}

// Close - flushes anything Sentry still holds. Tools defer this in main;
// Fatalf flushes itself since deferred calls don't run past os.Exit.
func (s Services) Close() {
	if len(s.Config.SentryEndpoint) > 0 {
		sentry.Flush(2 * time.Second)
	}
}

func makeLogger(cfg config.ToolConfig) logger.ILogger {
	// Tools run interactively on the acquisition machine. Logging defaults
	// to stdout; LogStdErr moves it aside for tools whose stdout gets piped.
	var ourLogger logger.ILogger
	if cfg.LogStdErr {
		l := &logger.StdErrLogger{}
		l.SetLogLevel(cfg.LogLevel)
		ourLogger = l
	} else {
		l := &logger.StdOutLogger{}
		l.SetLogLevel(cfg.LogLevel)
		ourLogger = l
	}

	if name, err := logger.GetLogLevelName(cfg.LogLevel); err != nil {
		log.Fatalf("%v", err)
	} else if cfg.LogLevel != logger.LogInfo {
		ourLogger.Printf(cfg.LogLevel, "Log level: %v", name)
	}
	return ourLogger
}
