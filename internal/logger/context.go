package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// nop is shared by every context without a logger.
var nop = zap.NewNop()

// ContextWithLogger stores a request-scoped logger in the context.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the request-scoped logger from the context.
// Returns a no-op logger if none is stored.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return nop
}
