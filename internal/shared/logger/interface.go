package logger

import "log/slog"

// Interface is the logging surface handed to application and infrastructure
// code. Arguments after the message are alternating key/value pairs, as in
// slog.
type Interface interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)

	// With returns a child logger carrying the given key/value pairs on
	// every record.
	With(kv ...any) Interface
	// Named returns a child logger tagged with a component name.
	Named(name string) Interface
}

type slogAdapter struct {
	l *slog.Logger
}

// NewLogger wraps the process-wide slog logger.
func NewLogger() Interface {
	return slogAdapter{l: Get()}
}

// NewLoggerWithSlog wraps an explicit slog.Logger, used by tests to capture
// output.
func NewLoggerWithSlog(l *slog.Logger) Interface {
	return slogAdapter{l: l}
}

func (a slogAdapter) Debug(msg string, kv ...any) { a.l.Debug(msg, kv...) }
func (a slogAdapter) Info(msg string, kv ...any)  { a.l.Info(msg, kv...) }
func (a slogAdapter) Warn(msg string, kv ...any)  { a.l.Warn(msg, kv...) }
func (a slogAdapter) Error(msg string, kv ...any) { a.l.Error(msg, kv...) }

func (a slogAdapter) With(kv ...any) Interface {
	return slogAdapter{l: a.l.With(kv...)}
}

func (a slogAdapter) Named(name string) Interface {
	return slogAdapter{l: a.l.With("component", name)}
}
