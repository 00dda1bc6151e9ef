// Package logging builds the charmbracelet/log loggers used across beatstep.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel names the environment variable that overrides the configured level.
const EnvLevel = "BEATSTEP_LOG_LEVEL"

// Prefix is printed in front of every log line.
const Prefix = "beatstep"

// New creates a logger writing to w. The level comes from EnvLevel when set,
// then from level, and falls back to info when neither parses.
func New(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          Prefix,
	})
	logger.SetLevel(ResolveLevel(level))
	return logger
}

// ResolveLevel picks the effective level for the given configured value.
func ResolveLevel(level string) log.Level {
	if env := strings.TrimSpace(os.Getenv(EnvLevel)); env != "" {
		if lvl, err := log.ParseLevel(env); err == nil {
			return lvl
		}
	}
	if lvl, err := log.ParseLevel(strings.TrimSpace(level)); err == nil && level != "" {
		return lvl
	}
	return log.InfoLevel
}

// Discard returns a logger that drops everything. Used where no sink is wired.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OpenFile opens (creating if needed) a log file for append and returns a
// logger bound to it together with the file so the caller can close it.
func OpenFile(path, level string) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return New(f, level), f, nil
}
