// Package logx builds the structured logger shared by the commands.
package logx

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tomz197/gonuts/internal/config"
)

// New returns a logger writing to w with the given prefix. The level comes
// from LOG_LEVEL (debug, info, warn, error) and defaults to info.
func New(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(ParseLevel(config.GetEnv("LOG_LEVEL", "info")))
	return logger
}

// Setup loads .env files (default ".env") and then builds a logger on w, so
// a LOG_LEVEL from the file applies. The logger is usable even when loading
// fails; the error is returned for the caller to report.
func Setup(w io.Writer, prefix string, envFiles ...string) (*log.Logger, error) {
	err := config.LoadDotEnv(envFiles...)
	return New(w, prefix), err
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// ParseLevel maps a level name to a log.Level, falling back to info.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
