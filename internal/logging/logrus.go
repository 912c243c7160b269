package logging

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus entry to Logger. Key-value args become fields.
type LogrusLogger struct {
	e *logrus.Entry
}

func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{e: logrus.NewEntry(l)}
}

// NewLogrusLoggerJSON returns a logrus-backed logger with a JSON formatter.
func NewLogrusLoggerJSON(w io.Writer, level string) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "time",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "msg",
		},
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return NewLogrusLogger(l)
}

func (s *LogrusLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.entry(ctx, args).Debug(msg)
}

func (s *LogrusLogger) Info(ctx context.Context, msg string, args ...any) {
	s.entry(ctx, args).Info(msg)
}

func (s *LogrusLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.entry(ctx, args).Warn(msg)
}

func (s *LogrusLogger) Error(ctx context.Context, msg string, args ...any) {
	s.entry(ctx, args).Error(msg)
}

func (s *LogrusLogger) With(args ...any) Logger {
	return &LogrusLogger{e: s.e.WithFields(toFields(args))}
}

func (s *LogrusLogger) entry(ctx context.Context, args []any) *logrus.Entry {
	e := s.e
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	if len(args) == 0 {
		return e
	}
	return e.WithFields(toFields(args))
}

// toFields pairs args the way slog does; a dangling value is stored under "!BADKEY".
func toFields(args []any) logrus.Fields {
	f := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}
