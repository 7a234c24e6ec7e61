package ws

import (
	"encoding/json"
	"sync"

	"point-arena/internal/logger"
)

// Hub is the per-user connection registry for server push. Delivery is
// best-effort: an offline user or a full send buffer drops the message,
// the gift ledger remains the durable record.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Notify pushes a payload to every open connection of one user. It never
// blocks the caller; the match engine runs on a scheduler tick and must
// not stall behind a slow socket.
func (h *Hub) Notify(userID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal push payload", "user_id", userID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
		default:
			logger.Warn("push buffer full, dropping message", "user_id", userID)
		}
	}
}

// ClientCount reports open connections, for the readiness endpoint and tests.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
