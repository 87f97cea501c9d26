// internal/app/features/groups/types.go
package groups

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/limits"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// moduleRequest references a catalog module within the caller's
// recorded university and course.
type moduleRequest struct {
	ModuleID string `json:"moduleId" validate:"required"`
}

// createGroupRequest is the POST /api/groups payload. Latitude and
// longitude are pointers so "missing coordinates" is distinguishable
// from the equator/meridian.
type createGroupRequest struct {
	Name      string         `json:"name" validate:"omitempty,max=120"`
	StartAt   time.Time      `json:"startAt" validate:"required"`
	EndAt     time.Time      `json:"endAt" validate:"required"`
	Latitude  *float64       `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *float64       `json:"longitude" validate:"required,min=-180,max=180"`
	Interest  string         `json:"interest" validate:"omitempty,max=200"`
	Module    *moduleRequest `json:"module"`
}

type moduleResponse struct {
	ModuleID string `json:"moduleId"`
	Name     string `json:"name"`
	Year     int    `json:"year"`
}

type groupResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	CreatorID string          `json:"creatorId"`
	MemberIDs []string        `json:"memberIds"`
	StartAt   time.Time       `json:"startAt"`
	EndAt     time.Time       `json:"endAt"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Interest  string          `json:"interest,omitempty"`
	Module    *moduleResponse `json:"module,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// myGroupResponse adds resolved member display names for the caller's
// own group view.
type myGroupResponse struct {
	groupResponse
	MemberNames []string `json:"memberNames"`
}

func toGroupResponse(g models.Group) groupResponse {
	members := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, m.Hex())
	}
	resp := groupResponse{
		ID:        g.ID.Hex(),
		Name:      g.Name,
		CreatorID: g.CreatorID.Hex(),
		MemberIDs: members,
		StartAt:   g.StartAt,
		EndAt:     g.EndAt,
		Latitude:  g.Location.Lat(),
		Longitude: g.Location.Lng(),
		Interest:  g.Interest,
		CreatedAt: g.CreatedAt,
	}
	if g.Module != nil {
		resp.Module = &moduleResponse{
			ModuleID: g.Module.ModuleID,
			Name:     g.Module.Name,
			Year:     g.Module.Year,
		}
	}
	return resp
}

// identityUserID resolves the authenticated caller's ObjectID.
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

// decodeJSON reads a size-limited JSON body into dst.
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

// pathGroupID parses the {id} route parameter.
func pathGroupID(raw string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.Validation, "bad group id")
	}
	return oid, nil
}
