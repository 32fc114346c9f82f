// Package clilog is the CLI's own operational logger — "processing
// FILE", "skipping unreadable FILE: ERR" — never a verification
// finding, which always goes through the diagnostic pipeline's FILE
// writer instead. Trimmed from marmos91-dittofs's internal/logger: one
// level (quiet/verbose), one handler, no context propagation.
package clilog

import (
	"io"
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Init reconfigures the package logger's output and verbosity. quiet
// raises the level to Warn so Info calls are dropped; verbose lowers
// it to Debug.
func Init(w io.Writer, quiet, verbose bool) {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func Debug(msg string, args ...any) { logger.Debug(msg, args...) }
func Info(msg string, args ...any)  { logger.Info(msg, args...) }
func Warn(msg string, args ...any)  { logger.Warn(msg, args...) }
func Error(msg string, args ...any) { logger.Error(msg, args...) }
