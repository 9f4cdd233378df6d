package auth

import (
	"context"

	"fintrack/internal/core"
)

type contextKey struct{}

// WithIdentity attaches the verified caller to the request context.
func WithIdentity(ctx context.Context, id core.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext retrieves the verified caller, if any.
func IdentityFromContext(ctx context.Context) (core.Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(core.Identity)
	return id, ok
}
