// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the profile endpoints. All routes require a bearer token.
func Routes(h *Handler, an *auth.Authenticator) chi.Router {
	r := chi.NewRouter()
	r.Use(an.RequireBearer)

	r.Get("/", h.HandleGetProfile)
	r.Put("/", h.HandleUpdateProfile)

	return r
}
