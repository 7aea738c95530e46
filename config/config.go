// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	cfgFile = ".nvalue.yaml"
	homeEnv = "NVALUE_HOME"

	defaultMessagePreview = 100
	defaultMaxBucket      = 1 << 16
	defaultLogLevel       = "info"
	defaultLogEncoding    = "json"
)

type Config struct {
	Log LogConfig `yaml:"log"`
	// MessagePreview is the number of characters of an oversized value
	// echoed back in size errors.
	MessagePreview int           `yaml:"message-preview"`
	Scratch        ScratchConfig `yaml:"scratch"`
	// StrictFloat keeps rejecting non-finite double results even when an
	// operand already was non-finite.
	StrictFloat bool `yaml:"strict-float"`
}

type LogConfig struct {
	Level       string   `yaml:"level"`
	Encoding    string   `yaml:"encoding"`
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"output-paths"`
}

type ScratchConfig struct {
	MaxBucket int `yaml:"max-bucket"`
}

func LoadConfig(configPath string) []byte {
	var path string
	if len(configPath) > 0 {
		path = configPath
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(homeDir, cfgFile)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return file
}

// ParseConfig decodes file and fills unset fields with defaults. A nil
// file yields the defaults.
func ParseConfig(file []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return Default(), err
	}

	cfg.applyDefaults()

	return cfg, nil
}

func Default() Config {
	var cfg Config
	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyDefaults() {
	if c.MessagePreview <= 0 {
		c.MessagePreview = defaultMessagePreview
	}
	if c.Scratch.MaxBucket <= 0 {
		c.Scratch.MaxBucket = defaultMaxBucket
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = defaultLogEncoding
	}
}

func fromConfigFiles() Config {
	dir := os.Getenv(homeEnv)
	if dir != "" {
		dir = filepath.Join(dir, cfgFile)
	}

	cfg, _ := ParseConfig(LoadConfig(dir))

	return cfg
}

var EnvConfig = fromConfigFiles()
