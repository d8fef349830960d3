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

// Tool configuration as read from strings/JSON, with env var overrides
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/clemtools/icat/core/logger"
)

// ToolConfig combines env vars and config JSON values. One of these is
// loaded at startup by every command line tool and passed around via the
// services bundle.
type ToolConfig struct {
	// Tile server connection
	RenderHost    string // eg http://localhost:8080
	RenderOwner   string
	RenderProject string

	HTTPTimeoutSec int32

	// Where acquisition runs live. DataBucket is an S3 bucket name when
	// UseS3 is set, otherwise a local root directory.
	UseS3      bool
	DataBucket string

	// SQLite file the tile table is kept in, empty disables it
	TileTableDB string

	EnvironmentName string

	LogLevel logger.LogLevel // Can be changed at runtime, but if the tool restarts it goes back to configured value

	// Log to stderr instead of stdout, for tools whose stdout gets piped
	LogStdErr bool

	SentryEndpoint string

	// Match generation
	MatchBatchSize  int32
	ParallelFetches int32

	// Overlay defaults
	CompositionOrder string // "rotate-shear-scale-translate" or "rotate-scale-shear-translate"

	// Stitching
	MaxRenderWidth int32 // Largest bbox width the server will render in one go
}

func NewConfigFromFile(configFilePath string) (ToolConfig, error) {
	var cfg ToolConfig

	customConfig, err := os.ReadFile(configFilePath)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file at %s", configFilePath)
	}
	return buildConfig(customConfig)
}

func NewConfigFromJsonString(configJson string) (ToolConfig, error) {
	return buildConfig([]byte(configJson))
}

func buildConfig(configJson []byte) (ToolConfig, error) {
	var cfg ToolConfig

	err := json.Unmarshal(configJson, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse custom config: %v", err)
	}

	// Override Config with any values explicitly set in Env Vars (ICAT_CONFIG_*)
	// NOTE: For []string slices, pass in a comma-separated string to the corresponding ICAT_CONFIG_ var
	reflection := reflect.ValueOf(&cfg).Elem()
	for i := 0; i < reflection.NumField(); i++ {
		fieldName := reflection.Type().Field(i).Name
		field := reflection.Field(i)
		if val, present := os.LookupEnv(fmt.Sprintf("ICAT_CONFIG_%s", fieldName)); present {
			switch field.Kind() {
			case reflect.String:
				field.SetString(val)
			case reflect.Bool:
				field.SetBool(val == "true" || val == "1")
			case reflect.Slice:
				if field.Type().Elem().Kind() == reflect.String {
					slicedVal := strings.Split(val, ",")
					field.Set(reflect.ValueOf(slicedVal))
				}
			case reflect.Int32:
				i, err := strconv.Atoi(val)
				if err != nil {
					fmt.Printf("Could not cast value ICAT_CONFIG_%s=%s to Int", fieldName, val)
					continue
				}
				field.SetInt(int64(i))
			}
		}
	}
	return cfg, nil
}

// Init config, loads config params from the file named on the command line
// and applies defaults for anything left unset
func Init() (ToolConfig, error) {
	configFilePath := flag.String("customConfigPath", "", "Path to the json file holding the tool configuration")
	flag.Parse()

	var cfg ToolConfig
	var err error

	if configFilePath != nil && *configFilePath != "" {
		cfg, err = NewConfigFromFile(*configFilePath)
	} else {
		err = errors.New("no configuration provided")
	}
	if err != nil {
		return cfg, err
	}

	if cfg.HTTPTimeoutSec <= 0 {
		cfg.HTTPTimeoutSec = 120
	}
	if cfg.MatchBatchSize <= 0 {
		cfg.MatchBatchSize = 50
	}
	if cfg.ParallelFetches <= 0 {
		cfg.ParallelFetches = 8
	}
	if cfg.MaxRenderWidth <= 0 {
		cfg.MaxRenderWidth = 10000
	}
	if cfg.CompositionOrder == "" {
		cfg.CompositionOrder = "rotate-shear-scale-translate"
	}

	return cfg, nil
}
