// Package logging builds the zerolog logger used across panelshell.
// The terminal belongs to the UI, so output goes to a file unless the
// caller supplies a writer.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level      string // trace, debug, info, warn, error, disabled
	Format     string // "json" or "console"
	File       string // empty = discard
	TimeFormat string
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("parse log level %q: %w", level, err)
	}
	return l, nil
}

// New creates a logger writing to w.
func New(cfg Config, w io.Writer) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: timeFormat,
			NoColor:    true,
		}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// Open creates a logger for cfg, opening cfg.File for append.
// The returned cleanup closes the file.
func Open(cfg Config) (zerolog.Logger, func(), error) {
	if cfg.File == "" {
		l, err := New(cfg, io.Discard)
		return l, func() {}, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // G304: user-configured log path
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
	}
	l, err := New(cfg, f)
	if err != nil {
		_ = f.Close()
		return zerolog.Nop(), func() {}, err
	}
	return l, func() { _ = f.Close() }, nil
}

// ApplyEnv overrides cfg from PANELSHELL_LOG_LEVEL and PANELSHELL_LOG_FORMAT.
func ApplyEnv(cfg Config) Config {
	if level := os.Getenv("PANELSHELL_LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	if format := os.Getenv("PANELSHELL_LOG_FORMAT"); format == "json" || format == "console" {
		cfg.Format = format
	}
	return cfg
}
