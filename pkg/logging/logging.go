// Package logging configures structured logging for the server.
//
// Usage:
//
//	logging.Setup(slog.LevelInfo, logging.FormatText) // colored output via tint
//	logging.Setup(slog.LevelDebug, logging.FormatJSON) // one JSON object per line
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to w at level. FormatJSON selects slog's
// JSON handler; anything else selects colored tint output.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// Setup installs a logger writing to stderr as the slog default.
func Setup(level slog.Level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}
