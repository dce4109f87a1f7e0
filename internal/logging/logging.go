// Package logging builds the slog loggers used by the reactor tools.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	EnvLogLevel  = "REACTOR_LOG_LEVEL"
	EnvLogFormat = "REACTOR_LOG_FORMAT"
	EnvLogSource = "REACTOR_LOG_SOURCE"
)

// Profile selects defaults before environment overrides are applied.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Options configures New.
type Options struct {
	Level  slog.Level
	Format string // "text" or "json"
	Source bool
	Output io.Writer
}

// Defaults returns the options for profile.
func Defaults(profile Profile) Options {
	switch profile {
	case ProfileTest:
		return Options{Level: slog.LevelDebug, Format: "text", Output: os.Stderr}
	default:
		return Options{Level: slog.LevelInfo, Format: "text", Output: os.Stderr}
	}
}

// New builds a logger from opts after applying environment overrides.
func New(opts Options) *slog.Logger {
	ApplyEnv(&opts)
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.Source}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(out, hopts)
	} else {
		h = slog.NewTextHandler(out, hopts)
	}
	return slog.New(h)
}

// ApplyEnv overrides opts with REACTOR_LOG_* variables that are set and valid.
func ApplyEnv(opts *Options) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
	}
	if f, ok := parseFormat(os.Getenv(EnvLogFormat)); ok {
		opts.Format = f
	}
	if v, ok := parseBool(os.Getenv(EnvLogSource)); ok {
		opts.Source = v
	}
}

// ParseLevel parses a level name. Unknown or empty names report false.
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "trace":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func parseFormat(raw string) (string, bool) {
	switch f := strings.ToLower(strings.TrimSpace(raw)); f {
	case "text", "json":
		return f, true
	default:
		return "", false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
