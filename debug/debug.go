package debug

import (
	"io"
	"log/slog"
	"os"
	"strconv"
)

type debug struct {
	Level    bool
	Pipeline bool
	Events   bool
	Patch    bool
}

var (
	d      *debug
	logger *slog.Logger
)

func init() {
	d = &debug{}
	d.Level = boolEnv("EVJ_DEBUG")
	d.Pipeline = boolEnv("EVJ_DEBUG_PIPELINE")
	d.Events = boolEnv("EVJ_DEBUG_EVENTS")
	d.Patch = boolEnv("EVJ_DEBUG_PATCH")
	logger = NewLogger(os.Stderr)
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Pipeline reports whether pipeline construction and runs are logged.
func Pipeline() bool {
	return d.Pipeline
}

// Events reports whether every event passing through a pipeline is logged.
func Events() bool {
	return d.Events
}

// Patch reports whether patch application is logged.
func Patch() bool {
	return d.Patch
}

func slogLevel() slog.Level {
	if d.Level || d.Pipeline || d.Events || d.Patch {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger creates a text logger on w at the level given by the
// environment.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel()}))
}

// Logger returns the package logger.
func Logger() *slog.Logger {
	return logger
}

// SetLogger replaces the package logger.
func SetLogger(l *slog.Logger) {
	logger = l
}
