// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Transient, "load user", err)
	}
	return &u, nil
}

// GetBySubject loads a user by external credential subject.
func (s *Store) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"subject": subject}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Transient, "load user", err)
	}
	return &u, nil
}

// GetManyByIDs loads users in bulk, keyed by ID. Missing IDs are simply
// absent from the result; callers fall back to a generic display name.
func (s *Store) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "load users", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, apperr.Wrap(apperr.Transient, "decode user", err)
		}
		out[u.ID] = u
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "load users", err)
	}
	return out, nil
}

// EnsureBySubject returns the user bound to subject, creating the record
// on first authenticated contact. Name fields from the verified claims
// are written only at creation; later edits belong to the profile flow.
func (s *Store) EnsureBySubject(ctx context.Context, subject, firstName, lastName string) (*models.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, apperr.New(apperr.Validation, "missing subject")
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Subject:   subject,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.c.InsertOne(ctx, u)
	if err == nil {
		return &u, nil
	}
	if wafflemongo.IsDup(err) {
		// Raced with another first contact for the same subject.
		return s.GetBySubject(ctx, subject)
	}
	return nil, apperr.Wrap(apperr.Transient, "create user", err)
}

// ProfileUpdate holds the mutable profile fields.
type ProfileUpdate struct {
	FirstName  string
	LastName   string
	University string
	Course     string
	Year       int
}

// UpdateProfile overwrites the profile fields and returns the updated user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) (*models.User, error) {
	after := options.After
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"first_name": strings.TrimSpace(p.FirstName),
			"last_name":  strings.TrimSpace(p.LastName),
			"university": strings.TrimSpace(p.University),
			"course":     strings.TrimSpace(p.Course),
			"year":       p.Year,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	)
	var u models.User
	if err := res.Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Transient, "update profile", err)
	}
	return &u, nil
}

// SetCurrentGroup points the user at groupID, but only if the user has
// no current group. Returns false if the user document was not updated
// (either the user is already in a group or the user does not exist);
// the caller disambiguates.
func (s *Store) SetCurrentGroup(ctx context.Context, userID, groupID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "current_group_id": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"current_group_id": groupID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, apperr.Wrap(apperr.Transient, "set current group", err)
	}
	return res.ModifiedCount == 1, nil
}

// ClearCurrentGroup clears the user's pointer, but only if it still
// equals expected. A stale pointer (already cleared or repointed by a
// concurrent transition) is left alone and reported as false.
func (s *Store) ClearCurrentGroup(ctx context.Context, userID, expected primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": userID, "current_group_id": expected},
		bson.M{"$unset": bson.M{"current_group_id": ""}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, apperr.Wrap(apperr.Transient, "clear current group", err)
	}
	return res.ModifiedCount == 1, nil
}

// DetachFromGroups clears current_group_id for every user pointing at one
// of the given groups. Used by the reaper; the filter keys the clear on
// the pointer value, so users who already moved on are untouched.
func (s *Store) DetachFromGroups(ctx context.Context, groupIDs []primitive.ObjectID) (int64, error) {
	if len(groupIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"current_group_id": bson.M{"$in": groupIDs}},
		bson.M{"$unset": bson.M{"current_group_id": ""}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, apperr.Wrap(apperr.Transient, "detach users", err)
	}
	return res.ModifiedCount, nil
}
