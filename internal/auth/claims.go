package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Claims — проверенный payload access token. Создаётся только в Verifier.Verify.
type Claims struct {
	jwt.RegisteredClaims
	// nil, если в токене нет claim "permissions"
	Permissions []string `json:"permissions,omitempty"`
}

type claimsKey struct{}

// WithClaims кладёт проверенные claims в контекст
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext достаёт claims, положенные WithClaims
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
