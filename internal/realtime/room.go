package realtime

import "sync"

// Room holds the clients watching one session.
type Room struct {
	SessionID uint
	mu        sync.Mutex
	clients   map[*Client]struct{}
}

func NewRoom(sessionID uint) *Room {
	return &Room{SessionID: sessionID, clients: make(map[*Client]struct{})}
}

func (r *Room) Join(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c] = struct{}{}
}

func (r *Room) Leave(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, c)
	return len(r.clients)
}

func (r *Room) ClientCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *Room) Broadcast(frame Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.clients {
		c.Send(frame)
	}
}
