package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const claimsKey contextKey = "planit-auth-claims"

// WithClaims stores claims on the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// FromContext retrieves claims stored by WithClaims.
func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated user's id, or uuid.Nil for an anonymous
// request. Services treat uuid.Nil as "not authenticated".
func UserID(ctx context.Context) uuid.UUID {
	if claims, ok := FromContext(ctx); ok {
		return claims.UserID
	}
	return uuid.Nil
}
