// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/limits"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
)

// HandleListGroups handles GET /api/groups: open (not yet ended)
// groups, newest first.
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	list, err := groupstore.New(h.DB).ListOpen(ctx, time.Now(), limits.GroupListLimit)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	out := make([]groupResponse, 0, len(list))
	for _, g := range list {
		out = append(out, toGroupResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}
