// internal/app/store/chatlog/chatlogstore.go
package chatlogstore

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/studyhub/internal/app/system/apperr"
	"github.com/dalemusser/studyhub/internal/app/system/limits"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sanitize strips any markup from user-authored text before it is
// persisted; the browser client renders message text directly.
var sanitize = bluemonday.StrictPolicy()

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chat_messages")}
}

// Append stores one message with a server-assigned timestamp and returns
// it. The text must be non-empty after trimming and at most
// limits.MaxChatMessageLen characters.
func (s *Store) Append(ctx context.Context, groupID, senderID primitive.ObjectID, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, apperr.New(apperr.Validation, "message text is empty")
	}
	if utf8.RuneCountInString(text) > limits.MaxChatMessageLen {
		return models.ChatMessage{}, apperr.New(apperr.Validation, "message text is too long")
	}

	msg := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		SenderID:  senderID,
		Text:      sanitize.Sanitize(text),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, msg); err != nil {
		return models.ChatMessage{}, apperr.Wrap(apperr.Transient, "store message", err)
	}
	return msg, nil
}

// Recent returns up to limit most-recent messages for the group,
// oldest-first. Internally fetched newest-first, then reversed.
func (s *Store) Recent(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = limits.ChatHistoryLimit
	}
	cur, err := s.c.Find(ctx,
		bson.M{"group_id": groupID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.Transient, "load history", err)
	}
	defer cur.Close(ctx)

	var msgs []models.ChatMessage
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, apperr.Wrap(apperr.Transient, "load history", err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Purge deletes all messages for the given groups. Used only by the
// reaper. Returns the number of messages deleted.
func (s *Store) Purge(ctx context.Context, groupIDs []primitive.ObjectID) (int64, error) {
	if len(groupIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": bson.M{"$in": groupIDs}})
	if err != nil {
		return 0, apperr.Wrap(apperr.Transient, "purge messages", err)
	}
	return res.DeletedCount, nil
}

// CountByGroup returns the number of stored messages for a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, apperr.Wrap(apperr.Transient, "count messages", err)
	}
	return n, nil
}
