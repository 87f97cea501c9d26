// internal/app/system/auth/middleware.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Authenticator is the bearer-token middleware for the JSON API. It
// verifies the credential, ensures a local user record exists for the
// subject (first authenticated contact creates one), and injects the
// Identity into the request context.
type Authenticator struct {
	verifier TokenVerifier
	users    *userstore.Store
	log      *zap.Logger
}

func NewAuthenticator(verifier TokenVerifier, users *userstore.Store, logger *zap.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, users: users, log: logger}
}

// BearerToken extracts the credential from an Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireBearer rejects requests without a valid bearer credential.
func (a *Authenticator) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := BearerToken(r)
		if raw == "" {
			apperr.WriteJSON(w, a.log, apperr.New(apperr.Unauthorized, "missing credential"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
		defer cancel()

		claims, err := a.verifier.Verify(ctx, raw)
		if err != nil {
			apperr.WriteJSON(w, a.log, err)
			return
		}

		u, err := a.users.EnsureBySubject(ctx, claims.Subject, claims.GivenName, claims.FamilyName)
		if err != nil {
			a.log.Warn("ensure user failed", zap.Error(err))
			apperr.WriteJSON(w, a.log, err)
			return
		}

		id := Identity{
			UserID:  u.ID.Hex(),
			Subject: u.Subject,
			Name:    u.DisplayName(),
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
