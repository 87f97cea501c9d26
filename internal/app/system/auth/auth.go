// internal/app/system/auth/auth.go

// Package auth verifies bearer credentials against the external identity
// provider and carries the resolved identity through request contexts.
// Token issuance is entirely external; this package only checks
// signature, issuer, and audience, and resolves the subject to a local
// user record.
package auth

import (
	"context"
	"net/http"
)

// Claims is the subset of verified token claims the application uses.
type Claims struct {
	Subject    string
	GivenName  string
	FamilyName string
	Email      string
}

// TokenVerifier verifies a raw bearer credential and returns its claims.
// The production implementation is backed by the provider's published
// key set; tests substitute StaticVerifier.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (Claims, error)
}

// Identity is what the middleware injects into the request context.
type Identity struct {
	UserID  string // hex ObjectID of the local user record
	Subject string
	Name    string
}

type ctxKey string

const identityKey ctxKey = "identity"

// WithIdentity returns a context carrying id. Exported for handler tests.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// CurrentIdentity returns the identity set by RequireBearer, if any.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}
