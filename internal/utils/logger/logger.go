package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// New returns the logger for the given environment at its default level.
func New(env string) *slog.Logger {
	return newLogger(os.Stdout, env, defaultLevel(env))
}

// NewWithLevel is New with an explicit level name (debug, info, warn, error).
// An empty name keeps the environment default.
func NewWithLevel(env, level string) (*slog.Logger, error) {
	if level == "" {
		return New(env), nil
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return newLogger(os.Stdout, env, lvl), nil
}

// ParseLevel maps a level name onto slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(level)))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func defaultLevel(env string) slog.Level {
	if env == envProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func newLogger(w io.Writer, env string, level slog.Level) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(newPrettyHandler(w, &slog.HandlerOptions{Level: level}))
	case envDev, envProd:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

func setupPrettySlog() *slog.Logger {
	return newLogger(os.Stdout, envLocal, slog.LevelDebug)
}
