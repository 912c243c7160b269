// Package logging defines a minimal structured-logging interface used across
// the project. Implementations wrap slog and logrus.
package logging

import (
	"context"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	// Debug logs verbose diagnostics.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	BackendSlog   = "slog"
	BackendLogrus = "logrus"
)

// New builds a JSON logger writing to w. Unknown backends fall back to slog,
// unknown levels to info.
func New(backend, level string, w io.Writer) Logger {
	switch strings.ToLower(backend) {
	case BackendLogrus:
		return NewLogrusLoggerJSON(w, level)
	default:
		return NewSlogLoggerJSON(w, level)
	}
}
