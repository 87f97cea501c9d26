// internal/app/store/groups/groupstore.go

// Package groupstore owns the group collection and every membership
// transition. Transitions are read-modify-write against a single user
// and/or group document; the "at most one current group per user"
// invariant rides on conditional updates (set the pointer only if
// absent, clear it only if it still matches), never on request
// ordering or in-process locks, so correctness holds across multiple
// server instances sharing one database.
package groupstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *userstore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("groups"),
		users: userstore.New(db),
	}
}

// GetByID loads a group by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Group{}, apperr.New(apperr.NotFound, "group not found")
		}
		return models.Group{}, apperr.Wrap(apperr.Transient, "load group", err)
	}
	return g, nil
}

// CreateGroupParams carries the validated creation input. Exactly one of
// Interest or Module must be set.
type CreateGroupParams struct {
	Name     string
	StartAt  time.Time
	EndAt    time.Time
	Location models.GeoPoint
	Interest string
	Module   *models.ModuleRef
}

// CreateGroup creates a group owned by ownerID with the owner as sole
// member, and points the owner's current_group_id at it. Fails with
// Conflict if the owner already has a current group.
func (s *Store) CreateGroup(ctx context.Context, ownerID primitive.ObjectID, p CreateGroupParams) (models.Group, error) {
	p.Interest = strings.TrimSpace(p.Interest)
	if !p.EndAt.After(p.StartAt) {
		return models.Group{}, apperr.New(apperr.Validation, "end time must be after start time")
	}
	if (p.Interest == "") == (p.Module == nil) {
		return models.Group{}, apperr.New(apperr.Validation, "exactly one of interest or module must be set")
	}

	gid := primitive.NewObjectID()

	// Claim the owner's pointer first; the pointer is the lock that
	// serializes concurrent create/join attempts for one user.
	ok, err := s.users.SetCurrentGroup(ctx, ownerID, gid)
	if err != nil {
		return models.Group{}, err
	}
	if !ok {
		if _, err := s.users.GetByID(ctx, ownerID); err != nil {
			return models.Group{}, err
		}
		return models.Group{}, apperr.New(apperr.Conflict, "user already has a group")
	}

	now := time.Now().UTC()
	g := models.Group{
		ID:        gid,
		Name:      strings.TrimSpace(p.Name),
		CreatorID: ownerID,
		Members:   []primitive.ObjectID{ownerID},
		StartAt:   p.StartAt.UTC(),
		EndAt:     p.EndAt.UTC(),
		Location:  p.Location,
		Interest:  p.Interest,
		Module:    p.Module,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		// Roll the pointer back so the owner is not stuck referencing a
		// group that never materialized.
		_, _ = s.users.ClearCurrentGroup(ctx, ownerID, gid)
		return models.Group{}, apperr.Wrap(apperr.Transient, "create group", err)
	}
	return g, nil
}

// JoinGroup appends userID to the group's members and sets the user's
// current_group_id. Conflict if the user already has a group or is
// already a member; NotFound if the group does not exist.
func (s *Store) JoinGroup(ctx context.Context, userID, groupID primitive.ObjectID) (models.Group, error) {
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if g.HasMember(userID) {
		return models.Group{}, apperr.New(apperr.Conflict, "already a member of this group")
	}

	ok, err := s.users.SetCurrentGroup(ctx, userID, groupID)
	if err != nil {
		return models.Group{}, err
	}
	if !ok {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			return models.Group{}, err
		}
		return models.Group{}, apperr.New(apperr.Conflict, "user already has a group")
	}

	after := options.After
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": groupID},
		bson.M{"$addToSet": bson.M{"members": userID}, "$set": bson.M{"updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	)
	var joined models.Group
	if err := res.Decode(&joined); err != nil {
		// The group vanished between the read and the update (reaper or
		// expiry); release the pointer and report the absence.
		_, _ = s.users.ClearCurrentGroup(ctx, userID, groupID)
		if err == mongo.ErrNoDocuments {
			return models.Group{}, apperr.New(apperr.NotFound, "group not found")
		}
		return models.Group{}, apperr.Wrap(apperr.Transient, "join group", err)
	}
	return joined, nil
}

// LeaveGroup removes userID from the group and clears the pointer.
// Conflict if the user has no current group, names a different group,
// or is the group's creator. A stale pointer to a now-deleted group is
// cleared, and NotFound is still reported to the caller.
func (s *Store) LeaveGroup(ctx context.Context, userID, groupID primitive.ObjectID) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u.CurrentGroupID == nil {
		return apperr.New(apperr.Conflict, "user has no current group")
	}
	if *u.CurrentGroupID != groupID {
		return apperr.New(apperr.Conflict, "not a member of this group")
	}

	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			// The group is gone; release the stale pointer but keep
			// reporting NotFound so the caller sees what happened.
			_, _ = s.users.ClearCurrentGroup(ctx, userID, groupID)
		}
		return err
	}
	if g.CreatorID == userID {
		return apperr.New(apperr.Conflict, "the group creator cannot leave")
	}

	if _, err := s.c.UpdateOne(ctx,
		bson.M{"_id": groupID},
		bson.M{"$pull": bson.M{"members": userID}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	); err != nil {
		return apperr.Wrap(apperr.Transient, "leave group", err)
	}
	if _, err := s.users.ClearCurrentGroup(ctx, userID, groupID); err != nil {
		return err
	}
	return nil
}

// GetCurrentGroup returns the group the user currently belongs to, or
// nil when the user has none (including a stale pointer to a reaped
// group, which is left for the leave flow or the reaper to clear).
func (s *Store) GetCurrentGroup(ctx context.Context, userID primitive.ObjectID) (*models.Group, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.CurrentGroupID == nil {
		return nil, nil
	}
	g, err := s.GetByID(ctx, *u.CurrentGroupID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// ListOpen returns groups whose end time is still in the future, newest
// first, capped at limit.
func (s *Store) ListOpen(ctx context.Context, now time.Time, limit int64) ([]models.Group, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"end_at": bson.M{"$gt": now.UTC()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "list groups", err)
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "list groups", err)
	}
	return groups, nil
}

// FindExpiredOrEmpty returns groups past their end time or with no
// members. Used by the reaper; the scan is re-derived every cycle.
func (s *Store) FindExpiredOrEmpty(ctx context.Context, now time.Time) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"$or": []bson.M{
		{"end_at": bson.M{"$lte": now.UTC()}},
		{"members": bson.M{"$size": 0}},
	}})
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "scan groups", err)
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "scan groups", err)
	}
	return groups, nil
}

// DeleteByIDs removes the given group records. Returns the number deleted.
func (s *Store) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, apperr.Wrap(apperr.Transient, "delete groups", err)
	}
	return res.DeletedCount, nil
}
