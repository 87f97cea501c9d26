// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a time- and location-bound study session.
//
// Invariants (enforced by the groups store and the reaper):
//   - CreatorID is always an element of Members; the creator cannot leave.
//   - Members is never empty for a persisted group except transiently
//     while the reaper deletes it.
//   - Exactly one of Interest or Module is set.
//   - EndAt is strictly after StartAt.
type Group struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Name      string               `bson:"name,omitempty" json:"name,omitempty"`
	CreatorID primitive.ObjectID   `bson:"creator_id" json:"creator_id"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`

	StartAt  time.Time `bson:"start_at" json:"start_at"`
	EndAt    time.Time `bson:"end_at" json:"end_at"`
	Location GeoPoint  `bson:"location" json:"location"`

	// Topical anchor: free-text interest or a structured module reference.
	Interest string     `bson:"interest,omitempty" json:"interest,omitempty"`
	Module   *ModuleRef `bson:"module,omitempty" json:"module,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether the user appears in the members array.
func (g Group) HasMember(userID primitive.ObjectID) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// ModuleRef is a denormalized reference to a catalog module, copied onto
// the group at creation time so the group stays displayable even if the
// catalog changes.
type ModuleRef struct {
	ModuleID string `bson:"module_id" json:"module_id"`
	Name     string `bson:"name" json:"name"`
	Year     int    `bson:"year" json:"year"`
}

// GeoPoint is a GeoJSON point ([longitude, latitude]) so the location
// field can carry a 2dsphere index.
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a latitude/longitude pair.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }
func (p GeoPoint) Lng() float64 { return p.Coordinates[0] }
