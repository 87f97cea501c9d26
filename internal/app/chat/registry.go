// internal/app/chat/registry.go
package chat

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Registry is the process-local index of open chat connections, grouped
// by group identifier. It is the only process-wide mutable structure in
// the relay; all access goes through the mutex. Entries exist only
// while at least one connection is open for that group.
type Registry struct {
	log *zap.Logger

	mu    sync.RWMutex
	conns map[string]map[string]*Conn // groupID -> connID -> conn
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		log:   logger,
		conns: make(map[string]map[string]*Conn),
	}
}

// Register adds the connection to the set for groupID, creating the set
// if absent. Re-registering the same connection is a no-op.
func (r *Registry) Register(groupID string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.conns[groupID]
	if set == nil {
		set = make(map[string]*Conn)
		r.conns[groupID] = set
	}
	set[c.id] = c
}

// Unregister removes the connection; the group entry is dropped when its
// set empties so the map never accumulates dead groups.
func (r *Registry) Unregister(groupID string, c *Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.conns[groupID]
	if set == nil {
		return
	}
	delete(set, c.id)
	if len(set) == 0 {
		delete(r.conns, groupID)
	}
}

// Count returns the number of open connections for a group.
func (r *Registry) Count(groupID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[groupID])
}

// Broadcast serializes payload once and offers it to every connection
// currently open for groupID. Delivery is best-effort: a connection
// that disconnects concurrently is skipped silently. No cross-
// connection ordering is promised.
func (r *Registry) Broadcast(groupID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		r.log.Error("broadcast marshal failed", zap.Error(err))
		return
	}

	r.mu.RLock()
	targets := make([]*Conn, 0, len(r.conns[groupID]))
	for _, c := range r.conns[groupID] {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	// Send outside the lock; a slow peer must not stall registration.
	for _, c := range targets {
		if err := c.send(data); err != nil && err != errConnClosed {
			r.log.Debug("broadcast send skipped", zap.String("group_id", groupID), zap.Error(err))
		}
	}
}
