// internal/app/chat/conn.go
package chat

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// transport is the subset of *websocket.Conn the relay writes to.
// Narrowed so registry and broadcast behavior can be tested without a
// network socket.
type transport interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

var errConnClosed = errors.New("connection closed")

// Conn wraps one live chat connection. gorilla/websocket permits at
// most one concurrent writer, so every outbound frame goes through the
// write mutex. The uuid gives the connection a stable identity in the
// registry independent of the underlying socket.
type Conn struct {
	id string
	ws transport

	mu     sync.Mutex
	closed bool
}

// NewConn wraps an upgraded websocket connection.
func NewConn(ws transport) *Conn {
	return &Conn{id: uuid.NewString(), ws: ws}
}

// send writes one text frame. A closed connection reports errConnClosed;
// a transport write error marks the connection closed so later
// broadcasts skip it.
func (c *Conn) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errConnClosed
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.closed = true
		return err
	}
	return nil
}

// Close marks the connection closed and closes the transport. Safe to
// call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}
