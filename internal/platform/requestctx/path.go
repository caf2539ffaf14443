// Package requestctx carries request-scoped values through context.
package requestctx

import "context"

// pathContextKey is the context key for the current route path.
type pathContextKey struct{}

// WithPath stores the current route path in context.
func WithPath(ctx context.Context, path string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, pathContextKey{}, path)
}

// PathFromContext returns the route path stored in context, or "" when none
// was set.
func PathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(pathContextKey{}).(string)
	return value
}
