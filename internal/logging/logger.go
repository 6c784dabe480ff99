// Package logging configures the structured stderr logger shared by the CLI
// and the process-pool workers.
//
// Verbosity follows the usual -v counting convention:
//
//	(none) warnings and errors only
//	-v     informational messages
//	-vv    debug output, including skipped syntax nodes
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
)

// VerboseEnv carries the verbosity to worker child processes
const VerboseEnv = "TESTSEARCH_VERBOSE"

// LevelForVerbosity maps a -v count to a slog level
func LevelForVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// New creates a text logger writing to w at the level implied by verbosity
func New(w io.Writer, verbosity int) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelForVerbosity(verbosity),
	})
	return slog.New(handler)
}

// Setup builds the stderr logger and installs it as the slog default
func Setup(verbosity int) *slog.Logger {
	logger := New(os.Stderr, verbosity)
	slog.SetDefault(logger)
	return logger
}

// VerbosityFromEnv reads the verbosity handed down by a parent process
func VerbosityFromEnv() int {
	v, err := strconv.Atoi(os.Getenv(VerboseEnv))
	if err != nil {
		return 0
	}
	return v
}

// Discard returns a logger that drops everything, for tests and quiet paths
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
