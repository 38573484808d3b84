// Package logging builds the application logger with charmbracelet/log.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/xvierd/todo-cli/internal/config"
)

// Prefix is prepended to every log line.
const Prefix = "todo"

// New creates a logger writing to w with the level and format from cfg.
func New(w io.Writer, cfg config.LogConfig) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.Level),
		Formatter:       ParseFormatter(cfg.Format),
		ReportTimestamp: cfg.File != "",
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Open creates a logger for cfg. When cfg.File is set the log is appended to
// that file; otherwise it goes to fallback. The returned closer is never nil.
func Open(cfg config.LogConfig, fallback io.Writer) (*log.Logger, io.Closer, error) {
	if cfg.File == "" {
		if fallback == nil {
			fallback = io.Discard
		}
		return New(fallback, cfg), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, cfg), f, nil
}

// Levels lists the level names accepted in configuration.
var Levels = []string{"debug", "info", "warn", "error"}

// ValidLevel reports whether level is a configurable level name. "warning"
// is accepted as an alias of "warn".
func ValidLevel(level string) bool {
	if level == "warning" {
		return true
	}
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// ParseLevel parses a string log level. Unknown levels map to info.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name. Unknown names map to text.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
