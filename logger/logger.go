// Copyright 2025 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger provides the structured logging this component uses in
// place of the original source's PRINT_ERR calls. It mirrors the teacher's
// internal/logger pairing of log/slog with gopkg.in/natefinch/lumberjack.v2
// for rotation, at a scale appropriate to a library rather than a daemon.
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls where and how log records are written.
type Config struct {
	// Filename, if non-empty, is where records are rotated to via
	// lumberjack. If empty, records go only to stderr.
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a *slog.Logger per cfg. A mutex failure or other internal
// plumbing error is logged through the returned logger but, per §7, must
// never change the return value of the calling operation.
func New(cfg Config) *slog.Logger {
	var w io.Writer = os.Stderr

	if cfg.Filename != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    nonZero(cfg.MaxSizeMB, 10),
			MaxBackups: nonZero(cfg.MaxBackups, 3),
			MaxAge:     nonZero(cfg.MaxAgeDays, 28),
		})
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Nop returns a logger that discards everything, for tests that don't care
// about log output.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func nonZero(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
