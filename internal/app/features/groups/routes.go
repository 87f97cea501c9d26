// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, an *auth.Authenticator) chi.Router {
	r := chi.NewRouter()

	// Everything under /api/groups requires a verified bearer credential.
	r.Group(func(pr chi.Router) {
		pr.Use(an.RequireBearer)

		// LIST
		pr.Get("/", h.HandleListGroups)

		// CREATE
		pr.Post("/", h.HandleCreateGroup)

		// CURRENT GROUP
		pr.Get("/mine", h.HandleMyGroup)

		// MEMBERSHIP
		pr.Post("/{id}/join", h.HandleJoinGroup)
		pr.Post("/{id}/leave", h.HandleLeaveGroup)
	})

	return r
}
