// internal/app/features/groups/leave.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// HandleLeaveGroup handles POST /api/groups/{id}/leave.
func (h *Handler) HandleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := identityUserID(r)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}
	groupID, err := pathGroupID(chi.URLParam(r, "id"))
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	if err := groupstore.New(h.DB).LeaveGroup(ctx, userID, groupID); err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	h.Log.Info("group left",
		zap.String("group_id", groupID.Hex()),
		zap.String("user_id", userID.Hex()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "left"})
}
