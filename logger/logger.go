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

// Package logger holds the process wide zap logger.
package logger

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sqlcore/nvalue/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global atomic.Pointer[zap.Logger]
	once   sync.Once
)

// Init builds the global logger from cfg. Only the first call has an
// effect; a configuration error leaves a no-op logger in place.
func Init(cfg config.LogConfig) error {
	var err error
	once.Do(func() {
		var lg *zap.Logger
		if lg, err = New(cfg); err != nil {
			lg = zap.NewNop()
		}
		global.Store(lg)
	})

	return err
}

// New creates a logger without touching the global one.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	outputPaths := cfg.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stderr"}
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "json"
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	lg, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return lg, nil
}

// Get returns the global logger, initializing it from
// config.EnvConfig on first use.
func Get() *zap.Logger {
	if lg := global.Load(); lg != nil {
		return lg
	}

	_ = Init(config.EnvConfig.Log)

	return global.Load()
}

// Named returns a child of the global logger for one component.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

// Replace swaps the global logger and returns a function restoring the
// previous one.
func Replace(lg *zap.Logger) func() {
	prev := Get()
	global.Store(lg)

	return func() { global.Store(prev) }
}
