// Package logging configures structured logging for the server.
// Interactive runs get colored tint output; deployments can switch to
// JSON lines with LOG_FORMAT=json.
//
// Environment variables:
//
//	LOG_LEVEL:  debug, info, warn, error (default: info)
//	LOG_FORMAT: text, json (default: text)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New builds a logger configured from the environment.
func New() *slog.Logger {
	return NewWithLevel(levelFromEnv())
}

// NewWithLevel builds a logger at the given level, format still taken
// from LOG_FORMAT.
func NewWithLevel(level slog.Level) *slog.Logger {
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// Setup installs a logger built by New as the slog default, so package
// level slog calls share the same handler.
func Setup() *slog.Logger {
	logger := New()
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
