package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceAtHandler decorates another handler and attaches the caller's source
// location to records at or above a threshold level. The wrapped handler must
// be built with AddSource disabled, otherwise the location would be emitted
// twice.
type sourceAtHandler struct {
	next slog.Handler
	min  slog.Level
}

// NewSourceAtHandler wraps next so that records at min or above carry a
// source attribute resolved from the record's program counter.
func NewSourceAtHandler(next slog.Handler, min slog.Level) slog.Handler {
	return sourceAtHandler{next: next, min: min}
}

func (h sourceAtHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h sourceAtHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.min && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h sourceAtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return sourceAtHandler{next: h.next.WithAttrs(attrs), min: h.min}
}

func (h sourceAtHandler) WithGroup(name string) slog.Handler {
	return sourceAtHandler{next: h.next.WithGroup(name), min: h.min}
}
