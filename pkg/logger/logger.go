// Package logger provides a structured, levelled logger built on log/slog.
//
// Handlers are chosen by environment: JSON for production (log
// aggregators), text for local development. WithCtx returns a logger
// pre-tagged with the request ID so every log line from a handler is
// correlated:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", order.ID.Hex())
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/dukaan/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	if config.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// ctxKey is the unexported key used to store a per-request *slog.Logger.
type ctxKey struct{}

// WithCtx returns the request-scoped logger injected by the logging
// middleware, or the base logger if none is present.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// Inject stores a request-scoped *slog.Logger into ctx. Called by the
// logging middleware; application code should not need it.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
