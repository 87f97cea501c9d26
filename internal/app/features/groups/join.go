// internal/app/features/groups/join.go
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

// HandleJoinGroup handles POST /api/groups/{id}/join.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
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

	g, err := groupstore.New(h.DB).JoinGroup(ctx, userID, groupID)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	h.Log.Info("group joined",
		zap.String("group_id", groupID.Hex()),
		zap.String("user_id", userID.Hex()))
	writeJSON(w, http.StatusOK, toGroupResponse(g))
}
