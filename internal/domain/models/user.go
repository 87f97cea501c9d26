// internal/domain/models/user.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a student account.
//
// NOTE:
//   - Identity is bound to the external credential subject (Subject),
//     never to a local password. Users are created on first
//     authenticated contact and are never hard-deleted.
//   - CurrentGroupID enforces the single-group rule: a user belongs to
//     at most one active group at a time. When present it must reference
//     a group whose members array contains this user.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject   string             `bson:"subject" json:"subject"` // external identity provider subject, unique
	FirstName string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty" json:"last_name,omitempty"`

	University string `bson:"university,omitempty" json:"university,omitempty"`
	Course     string `bson:"course,omitempty" json:"course,omitempty"`
	Year       int    `bson:"year,omitempty" json:"year,omitempty"`

	CurrentGroupID *primitive.ObjectID `bson:"current_group_id,omitempty" json:"current_group_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName is the name shown to other chat participants:
// first and last name joined, or "Anonymous" when both are blank.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return "Anonymous"
	}
	return name
}
