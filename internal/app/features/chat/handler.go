// internal/app/features/chat/handler.go
package chat

import (
	chatcore "github.com/dalemusser/studyhub/internal/app/chat"
)

// Handler exposes the chat relay over HTTP. The heavy lifting lives in
// the chat package's session controller; this feature only owns the
// route.
type Handler struct {
	Controller *chatcore.Controller
}

func NewHandler(controller *chatcore.Controller) *Handler {
	return &Handler{Controller: controller}
}
