package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext hangs the logger on the context for the handlers and
// services downstream.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or the process default when
// the context carries none (detached goroutines, tests).
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithRequestID rebinds the context logger with the request id so every
// record of one request correlates.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return WithContext(ctx, FromContext(ctx).With("req_id", reqID))
}
