// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/limits"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type updateProfileRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	University string `json:"university" validate:"max=200"`
	Course     string `json:"course" validate:"max=200"`
	Year       int    `json:"year" validate:"min=0,max=10"`
}

type profileResponse struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	University string `json:"university,omitempty"`
	Course     string `json:"course,omitempty"`
	Year       int    `json:"year,omitempty"`
}

func toProfileResponse(u *models.User) profileResponse {
	return profileResponse{
		ID:         u.ID.Hex(),
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		University: u.University,
		Course:     u.Course,
		Year:       u.Year,
	}
}

// HandleGetProfile handles GET /api/profile.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := identityUserID(r)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, userID)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(u))
}

// HandleUpdateProfile handles PUT /api/profile.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := identityUserID(r)
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		apperr.WriteJSON(w, h.Log, apperr.Wrap(apperr.Validation, "invalid profile", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	u, err := userstore.New(h.DB).UpdateProfile(ctx, userID, userstore.ProfileUpdate{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		University: req.University,
		Course:     req.Course,
		Year:       req.Year,
	})
	if err != nil {
		apperr.WriteJSON(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(u))
}

func identityUserID(r *http.Request) (primitive.ObjectID, error) {
	id, ok := auth.CurrentIdentity(r)
	if !ok {
		return primitive.NilObjectID, apperr.New(apperr.Unauthorized, "missing credential")
	}
	oid, err := primitive.ObjectIDFromHex(id.UserID)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Unauthorized, "missing credential")
	}
	return oid, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed request body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
