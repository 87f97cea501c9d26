// internal/app/chat/events.go
package chat

import (
	"time"

	"github.com/dalemusser/studyhub/internal/domain/models"
)

// Wire frames. After authorization the server sends exactly one history
// event, then one message event per accepted inbound message. The only
// accepted inbound shape is {"type":"message","text":"..."}.

type wireMessage struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
}

type historyEvent struct {
	Type     string        `json:"type"` // "history"
	Messages []wireMessage `json:"messages"`
}

type messageEvent struct {
	Type    string      `json:"type"` // "message"
	Message wireMessage `json:"message"`
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func toWireMessage(m models.ChatMessage, senderName string) wireMessage {
	return wireMessage{
		ID:         m.ID.Hex(),
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
		SenderID:   m.SenderID.Hex(),
		SenderName: senderName,
	}
}
