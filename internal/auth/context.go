package auth

import (
	"context"

	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const principalContextKey contextKey = "principal"

// ContextWithPrincipal adds the authenticated caller to ctx.
func ContextWithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the caller, or nil if the request is not
// authenticated.
func PrincipalFromContext(ctx context.Context) *model.Principal {
	p, ok := ctx.Value(principalContextKey).(*model.Principal)
	if !ok {
		return nil
	}
	return p
}

// UsernameFromContext returns the caller's username or "".
func UsernameFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.Username
	}
	return ""
}
