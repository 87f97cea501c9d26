// internal/app/features/groups/create.go
package groups

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/studyhub/internal/app/store/groups"
	"github.com/dalemusser/studyhub/internal/app/store/universities"
	"github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.uber.org/zap"
)

// HandleCreateGroup handles POST /api/groups.
//
// Validation happens before any mutation: the time window, the
// exactly-one-of interest/module rule, and (for module-anchored groups)
// that the module exists under the caller's recorded university and
// course in the catalog.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := identityUserID(r)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		apperr.WriteJSON(w, h.Log, apperr.Wrap(apperr.Validation, "invalid group", err))
		return
	}
	if !req.EndAt.After(req.StartAt) {
		apperr.WriteJSON(w, h.Log, apperr.New(apperr.Validation, "end time must be after start time"))
		return
	}
	hasInterest := strings.TrimSpace(req.Interest) != ""
	if hasInterest == (req.Module != nil) {
		apperr.WriteJSON(w, h.Log, apperr.New(apperr.Validation, "exactly one of interest or module must be set"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long)
	defer cancel()

	var moduleRef *models.ModuleRef
	if req.Module != nil {
		// Module references are validated against the caller's own
		// university/course from the profile, not caller-supplied names.
		u, err := userstore.New(h.DB).GetByID(ctx, userID)
		if err != nil {
			apperr.WriteJSON(w, h.Log, err)
			return
		}
		if u.University == "" || u.Course == "" {
			apperr.WriteJSON(w, h.Log, apperr.New(apperr.Validation, "profile has no university and course to resolve the module against"))
			return
		}
		m, err := universitystore.New(h.DB).FindModule(ctx, u.University, u.Course, req.Module.ModuleID)
		if err != nil {
			apperr.WriteJSON(w, h.Log, err)
			return
		}
		moduleRef = &models.ModuleRef{ModuleID: m.ModuleID, Name: m.Name, Year: m.Year}
	}

	g, err := groupstore.New(h.DB).CreateGroup(ctx, userID, groupstore.CreateGroupParams{
		Name:     req.Name,
		StartAt:  req.StartAt,
		EndAt:    req.EndAt,
		Location: models.NewGeoPoint(*req.Latitude, *req.Longitude),
		Interest: req.Interest,
		Module:   moduleRef,
	})
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	h.Log.Info("group created",
		zap.String("group_id", g.ID.Hex()),
		zap.String("creator_id", userID.Hex()))
	writeJSON(w, http.StatusCreated, toGroupResponse(g))
}
