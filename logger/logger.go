// Package logger provides the structured logger this module's consumers
// may attach to validation and evaluation calls. The library itself never
// logs on its own initiative — every function here is opt-in, threaded in
// by the caller.
package logger

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Logger wraps slog.Logger with the contextual-field helpers this module's
// callers use to tag log lines with the ASL path or state name being
// processed.
type Logger struct {
	*slog.Logger
}

// New creates a Logger. format "json" yields structured JSON lines for
// production log aggregation; any other value yields tint's colorized
// console output, which is friendlier for local validation/debugging
// sessions.
func New(level, format string) *Logger {
	var handler slog.Handler

	logLevel := parseLevel(level)

	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.TimeOnly,
			AddSource:  false,
		})
	}

	return &Logger{Logger: slog.New(handler)}
}

// Noop returns a Logger that discards everything, for callers that don't
// want tracing overhead.
func Noop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// WithContext attaches a trace_id pulled from ctx, if present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if traceID := ctx.Value(traceIDKey{}); traceID != nil {
		return &Logger{Logger: l.With("trace_id", traceID)}
	}
	return l
}

type traceIDKey struct{}

// WithPath returns a logger tagged with the ASL violation/evaluation path
// currently being processed, e.g. "states.Foo.retriers[1]".
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.With("path", path)}
}

// WithState returns a logger tagged with the name of the state being
// processed.
func (l *Logger) WithState(name string) *Logger {
	return &Logger{Logger: l.With("state", name)}
}

func parseLevel(level string) slog.Level {
	switch level {
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
