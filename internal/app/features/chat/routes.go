// internal/app/features/chat/routes.go
package chat

import "github.com/go-chi/chi/v5"

// Routes returns the websocket endpoint, mounted under /ws. The
// connection authenticates itself via query parameters (the browser
// WebSocket API cannot set an Authorization header), so no middleware
// runs here.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/chat", h.Controller.ServeWS)
	return r
}
