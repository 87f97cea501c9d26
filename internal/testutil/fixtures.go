package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given subject and name.
func (f *Fixtures) CreateUser(ctx context.Context, subject, firstName, lastName string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Subject:   subject,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateUserWithProfile creates a test user with university details filled in.
func (f *Fixtures) CreateUserWithProfile(ctx context.Context, subject, firstName, lastName, university, course string, year int) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Subject:    subject,
		FirstName:  firstName,
		LastName:   lastName,
		University: university,
		Course:     course,
		Year:       year,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateGroup inserts a group directly and points each member's
// current_group_id at it, bypassing the store so tests can set up
// arbitrary states.
func (f *Fixtures) CreateGroup(ctx context.Context, creator models.User, interest string, startAt, endAt time.Time, extraMembers ...models.User) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	members := []primitive.ObjectID{creator.ID}
	for _, m := range extraMembers {
		members = append(members, m.ID)
	}

	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      interest + " group",
		CreatorID: creator.ID,
		Members:   members,
		StartAt:   startAt,
		EndAt:     endAt,
		Location:  models.NewGeoPoint(51.5, -0.12),
		Interest:  interest,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}

	for _, id := range members {
		if _, err := f.db.Collection("users").UpdateByID(ctx, id,
			bson.M{"$set": bson.M{"current_group_id": group.ID}}); err != nil {
			f.t.Fatalf("failed to set current group: %v", err)
		}
	}
	return group
}

// CreateUniversity creates a catalog document with one course containing
// the given modules.
func (f *Fixtures) CreateUniversity(ctx context.Context, name, courseName string, modules ...models.Module) models.University {
	f.t.Helper()

	uni := models.University{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
		Courses: []models.Course{
			{Name: courseName, Modules: modules},
		},
	}

	if _, err := f.db.Collection("universities").InsertOne(ctx, uni); err != nil {
		f.t.Fatalf("failed to create test university: %v", err)
	}
	return uni
}

// CreateChatMessage inserts one chat message directly.
func (f *Fixtures) CreateChatMessage(ctx context.Context, groupID, senderID primitive.ObjectID, body string, createdAt time.Time) models.ChatMessage {
	f.t.Helper()

	msg := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		SenderID:  senderID,
		Text:      body,
		CreatedAt: createdAt,
	}

	if _, err := f.db.Collection("chat_messages").InsertOne(ctx, msg); err != nil {
		f.t.Fatalf("failed to create test chat message: %v", err)
	}
	return msg
}
