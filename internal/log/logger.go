package log

import (
	"context"

	"github.com/go-logr/logr"
)

// FromContext returns the logger stored in ctx. Without one, logs are discarded.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}

func WithLogger(ctx context.Context, logger logr.Logger) context.Context {
	return logr.NewContext(ctx, logger)
}

// WithName stores a child logger named name in ctx and returns both.
func WithName(ctx context.Context, name string) (context.Context, logr.Logger) {
	logger := FromContext(ctx).WithName(name)
	return WithLogger(ctx, logger), logger
}
