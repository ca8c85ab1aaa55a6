// Package realtime pushes session events to connected websocket clients.
package realtime

import (
	"sync"

	"interviewprep/internal/events"
)

// Frame is the envelope written to websocket clients.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub tracks one room per watched session.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]*Room
}

func NewHub() *Hub { return &Hub{rooms: make(map[uint]*Room)} }

func (h *Hub) GetOrCreate(sessionID uint) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[sessionID]; ok {
		return r
	}
	r := NewRoom(sessionID)
	h.rooms[sessionID] = r
	return r
}

// Leave removes c and drops the room once it is empty.
func (h *Hub) Leave(sessionID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.rooms[sessionID]
	if !ok {
		return
	}
	if r.Leave(c) == 0 {
		delete(h.rooms, sessionID)
	}
}

func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Deliver implements events.Sink.
func (h *Hub) Deliver(ev events.Event) {
	h.mu.RLock()
	r, ok := h.rooms[ev.SessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	r.Broadcast(Frame{Type: "event", Data: ev})
}

var _ events.Sink = (*Hub)(nil)
