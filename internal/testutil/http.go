package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithIdentity injects the given user's identity into the request context,
// bypassing the bearer middleware.
func WithIdentity(r *http.Request, u models.User) *http.Request {
	id := auth.Identity{
		UserID:  u.ID.Hex(),
		Subject: u.Subject,
		Name:    u.DisplayName(),
	}
	return r.WithContext(auth.WithIdentity(r.Context(), id))
}

// NewAuthenticatedRequest creates an HTTP request with the user's identity
// already in context. body may be nil.
func NewAuthenticatedRequest(method, target string, body io.Reader, u models.User) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return WithIdentity(req, u)
}

// JSONBody wraps a JSON literal for use as a request body.
func JSONBody(s string) io.Reader {
	return strings.NewReader(s)
}
