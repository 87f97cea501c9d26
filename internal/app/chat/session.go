// internal/app/chat/session.go
package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/studyhub/internal/app/store/chatlog"
	"github.com/dalemusser/studyhub/internal/app/store/users"
	"github.com/dalemusser/studyhub/internal/app/system/auth"
	"github.com/dalemusser/studyhub/internal/app/system/limits"
	"github.com/dalemusser/studyhub/internal/app/system/timeouts"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Controller drives one chat session per websocket connection:
// authenticate, authorize against current membership, replay recent
// history, relay inbound messages, tear down on disconnect. A new
// connection always starts from scratch; there is no resume.
type Controller struct {
	registry *Registry
	verifier auth.TokenVerifier
	users    *userstore.Store
	chatlog  *chatlogstore.Store
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewController(registry *Registry, verifier auth.TokenVerifier, users *userstore.Store, chatlog *chatlogstore.Store, logger *zap.Logger) *Controller {
	return &Controller{
		registry: registry,
		verifier: verifier,
		users:    users,
		chatlog:  chatlog,
		log:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The browser client is served from another origin; the
			// bearer credential is the access control, not the Origin
			// header.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the connection and runs the session to completion.
// The credential and target group arrive as query parameters; any
// authentication or authorization failure results in a single policy-
// violation close with no further detail, so callers cannot probe
// membership.
func (c *Controller) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}

	token := r.URL.Query().Get("token")
	groupID := r.URL.Query().Get("group_id")
	if token == "" || groupID == "" {
		c.closePolicyViolation(ws)
		return
	}

	user, ok := c.authorize(r.Context(), token, groupID)
	if !ok {
		c.closePolicyViolation(ws)
		return
	}

	// Authorized: equality with the user's current group guarantees a
	// valid hex id.
	gid, err := primitive.ObjectIDFromHex(groupID)
	if err != nil {
		c.closePolicyViolation(ws)
		return
	}

	conn := NewConn(ws)
	c.registry.Register(groupID, conn)
	defer func() {
		c.registry.Unregister(groupID, conn)
		_ = conn.Close()
	}()

	if err := c.sendHistory(r.Context(), conn, gid); err != nil {
		c.log.Warn("history replay failed", zap.String("group_id", groupID), zap.Error(err))
		return
	}

	c.relay(ws, gid, groupID, user.id, user.name)
}

type sessionUser struct {
	id   primitive.ObjectID
	name string
}

// authorize verifies the credential and confirms the resolved user's
// current group is exactly the requested one. All failure causes
// collapse to a bare false.
func (c *Controller) authorize(parent context.Context, token, groupID string) (sessionUser, bool) {
	ctx, cancel := context.WithTimeout(parent, timeouts.Short)
	defer cancel()

	claims, err := c.verifier.Verify(ctx, token)
	if err != nil {
		return sessionUser{}, false
	}
	u, err := c.users.GetBySubject(ctx, claims.Subject)
	if err != nil {
		return sessionUser{}, false
	}
	if u.CurrentGroupID == nil || u.CurrentGroupID.Hex() != groupID {
		return sessionUser{}, false
	}
	return sessionUser{id: u.ID, name: u.DisplayName()}, true
}

// sendHistory replays the most recent messages as one ordered batch,
// oldest first, with each sender's display name resolved in bulk.
func (c *Controller) sendHistory(parent context.Context, conn *Conn, gid primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(parent, timeouts.Medium)
	defer cancel()

	msgs, err := c.chatlog.Recent(ctx, gid, limits.ChatHistoryLimit)
	if err != nil {
		return err
	}

	senderIDs := make([]primitive.ObjectID, 0, len(msgs))
	seen := make(map[primitive.ObjectID]bool, len(msgs))
	for _, m := range msgs {
		if !seen[m.SenderID] {
			seen[m.SenderID] = true
			senderIDs = append(senderIDs, m.SenderID)
		}
	}
	senders, err := c.users.GetManyByIDs(ctx, senderIDs)
	if err != nil {
		return err
	}

	event := historyEvent{Type: "history", Messages: make([]wireMessage, 0, len(msgs))}
	for _, m := range msgs {
		name := "Anonymous"
		if u, ok := senders[m.SenderID]; ok {
			name = u.DisplayName()
		}
		event.Messages = append(event.Messages, toWireMessage(m, name))
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return conn.send(data)
}

// relay processes inbound frames one at a time until the transport
// closes, which keeps per-connection broadcast order aligned with
// persistence order. Malformed frames, wrong types, empty or oversized
// text are dropped silently; the connection is never punished for a
// bad frame.
func (c *Controller) relay(ws *websocket.Conn, gid primitive.ObjectID, groupID string, senderID primitive.ObjectID, senderName string) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil || frame.Type != "message" {
			continue
		}
		text := strings.TrimSpace(frame.Text)
		if text == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short)
		msg, err := c.chatlog.Append(ctx, gid, senderID, text)
		cancel()
		if err != nil {
			// Validation (too long) and transient store failures alike:
			// drop the frame, keep the connection.
			c.log.Debug("message dropped", zap.String("group_id", groupID), zap.Error(err))
			continue
		}

		c.registry.Broadcast(groupID, messageEvent{Type: "message", Message: toWireMessage(msg, senderName)})
	}
}

func (c *Controller) closePolicyViolation(ws *websocket.Conn) {
	deadline := time.Now().Add(5 * time.Second)
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""), deadline)
	_ = ws.Close()
}
