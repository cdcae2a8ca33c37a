// Package logging provides structured logging configuration using log/slog.
//
// The core packages never log directly; they emit types.Event values to an
// observer. NewObserver turns those events into slog records so the CLI
// decides where they end up.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ginjaninja78/opengd77-converter/internal/types"
)

// Setup builds a logger for level and format, installs it as the slog
// default and returns it. A nil w writes to stderr so stdout stays free for
// command output.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	sessionLogger := logging.WithFields(logger, "session_id", sess.ID)
//	sessionLogger.Info("export started")
func WithFields(logger *slog.Logger, args ...any) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(args...)
}

// observer forwards core events to a slog logger.
type observer struct {
	logger *slog.Logger
}

// NewObserver returns an Observer that logs every event at its own level
// with the event name as the "event" attribute. A nil logger uses the slog
// default.
func NewObserver(logger *slog.Logger) types.Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &observer{logger: logger}
}

// Observe implements types.Observer.
func (o *observer) Observe(e types.Event) {
	attrs := make([]slog.Attr, 0, len(e.Attrs)+1)
	attrs = append(attrs, slog.String("event", e.Name))
	attrs = append(attrs, e.Attrs...)
	o.logger.LogAttrs(context.Background(), e.Level, e.Message, attrs...)
}
