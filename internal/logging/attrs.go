package logging

import (
	"context"
	"log/slog"
)

type Attr = slog.Attr

const (
	// FieldPath is the key for the file a log line is about.
	FieldPath = "path"
	// FieldLines is the key for line counts reported by writers and parsers.
	FieldLines = "lines"
)

func String(key, value string) Attr { return slog.String(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

// Path tags a log line with the file it concerns.
func Path(value string) Attr { return slog.String(FieldPath, value) }

// Lines reports a fixed-width or delimited line count.
func Lines(n int) Attr { return slog.Int(FieldLines, n) }

// Error renders err under the "error" key. A nil error is logged as "<nil>"
// rather than dropped so misuse stays visible.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attributes into the variadic form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

// NewNop returns a logger that discards everything. Library constructors use
// it when the caller passes a nil logger.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component attribute such as
// "generate" or "parse". A nil logger yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// NoopHandler discards all log output.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
