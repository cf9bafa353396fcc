// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging points the standard logger at a rotating log file. The TUI
// owns the terminal, so log lines never go to stdout.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jeranaias/rigrun-acp/internal/config"
)

// StderrPath selects stderr instead of a file.
const StderrPath = "-"

// DefaultPath returns ~/.rigrun-acp/rigrun-acp.log, or "" when the home
// directory is unknown.
func DefaultPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rigrun-acp.log")
}

// Sink returns the writer for cfg. The returned closer releases the file; it
// is a no-op for stderr.
func Sink(cfg config.LogConfig) (io.Writer, io.Closer) {
	path := cfg.File
	if path == "" {
		path = DefaultPath()
	}
	if path == "" || path == StderrPath {
		return os.Stderr, nopCloser{}
	}

	fileLogger := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}
	return fileLogger, fileLogger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup directs the standard logger to cfg's sink and returns a function
// that closes it.
func Setup(cfg config.LogConfig) func() error {
	w, c := Sink(cfg)
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return c.Close
}
