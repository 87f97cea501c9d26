// internal/app/features/groups/mine.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
)

// HandleMyGroup handles GET /api/groups/mine: the caller's current
// group with member display names, or NotFound when the caller has
// none.
func (h *Handler) HandleMyGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := identityUserID(r)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	g, err := groupstore.New(h.DB).GetCurrentGroup(ctx, userID)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}
	if g == nil {
		apperr.WriteJSON(w, h.Log, apperr.New(apperr.NotFound, "no current group"))
		return
	}

	members, err := userstore.New(h.DB).GetManyByIDs(ctx, g.Members)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}
	names := make([]string, 0, len(g.Members))
	for _, id := range g.Members {
		name := "Anonymous"
		if u, ok := members[id]; ok {
			name = u.DisplayName()
		}
		names = append(names, name)
	}

	writeJSON(w, http.StatusOK, myGroupResponse{
		groupResponse: toGroupResponse(*g),
		MemberNames:   names,
	})
}
