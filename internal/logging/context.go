package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey int

const (
	baseKey ctxKey = iota
	componentKey
)

// FromContext returns the context's logger, or a disabled one.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext attaches logger to ctx and resets the component path.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	ctx = context.WithValue(ctx, baseKey, logger)
	ctx = context.WithValue(ctx, componentKey, "")
	return logger.WithContext(ctx)
}

// WithComponent tags the context's logger with a component. Nested calls
// extend the path ("preview.popup") rather than adding a second field.
func WithComponent(ctx context.Context, name string) context.Context {
	base, ok := ctx.Value(baseKey).(zerolog.Logger)
	if !ok {
		base = *FromContext(ctx)
	}
	path := name
	if parent := Component(ctx); parent != "" {
		path = parent + "." + name
	}
	ctx = context.WithValue(ctx, componentKey, path)
	return base.With().Str("component", path).Logger().WithContext(ctx)
}

// Component returns the component path set by WithComponent.
func Component(ctx context.Context) string {
	path, _ := ctx.Value(componentKey).(string)
	return path
}
