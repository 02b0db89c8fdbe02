// Package logging configures the logrus logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPath is the log file used when none is configured.
const DefaultPath = "./dx_environment.log"

// Config controls where and how much is logged.
type Config struct {
	// Path is the log file. Lines are appended. Empty disables the file.
	Path string

	// Debug lowers the level to debug.
	Debug bool

	// Format is "text" (default) or "json".
	Format string

	// Console receives the same lines as the file. Defaults to os.Stderr.
	Console io.Writer
}

// Setup builds a logger from cfg. The returned close function releases the
// log file and is safe to call when no file was opened.
func Setup(cfg Config) (*logrus.Logger, func() error, error) {
	logger := logrus.New()

	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: time.RFC3339,
			FullTimestamp:   true,
		})
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	closeFn := func() error { return nil }
	if cfg.Path == "" {
		logger.SetOutput(console)
		return logger, closeFn, nil
	}

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.Path, err)
	}

	logger.SetOutput(io.MultiWriter(console, f))
	return logger, f.Close, nil
}

// ForEngine returns a logger that tags every line with the engine name.
func ForEngine(log logrus.FieldLogger, engine string) *logrus.Entry {
	return log.WithField("engine", engine)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
