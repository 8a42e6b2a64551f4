package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dgrudge/lobby/internal/model"
)

// Sender is the outbound fan-out surface used by the message router and the
// moderation policy. Delivery is best-effort: a recipient that cannot accept
// a message is skipped, never retried, and never aborts the fan-out.
type Sender interface {
	// Broadcast delivers the envelope to every connected client
	Broadcast(v any)
	// SendTo delivers the envelope to a single client, if connected
	SendTo(id model.PlayerID, v any)
	// SendToMany delivers the envelope to each listed client that is connected
	SendToMany(ids []model.PlayerID, v any)
	// Close forcibly closes a client's connection with a policy reason
	Close(id model.PlayerID, reason string)
}

// Hub owns the set of live websocket clients and performs fan-out.
// Clients are keyed by the player id allocated at accept time.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.PlayerID]*Client
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.PlayerID]*Client),
		logger:  logger.With(slog.String("component", "hub")),
	}
}

var _ Sender = (*Hub)(nil)

// Register adds a client to the hub
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected",
		slog.String("player_id", string(c.id)),
		slog.String("addr", c.addr),
		slog.Int("total_clients", count))
}

// Unregister removes a client and closes its send channel. Safe to call for
// a client that was already removed.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client disconnected",
		slog.String("player_id", string(c.id)),
		slog.Int("total_clients", count))
}

// Broadcast delivers the envelope to every connected client
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("marshaling broadcast envelope", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	dropped := 0
	for _, c := range h.clients {
		if !c.enqueue(data) {
			dropped++
		}
	}
	h.mu.RUnlock()
	if dropped > 0 {
		h.logger.Warn("broadcast partial delivery", slog.Int("dropped", dropped))
	}
}

// SendTo delivers the envelope to a single client, if connected
func (h *Hub) SendTo(id model.PlayerID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("marshaling envelope", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	c, ok := h.clients[id]
	if ok && !c.enqueue(data) {
		h.logger.Warn("message dropped, client buffer full", slog.String("player_id", string(id)))
	}
	h.mu.RUnlock()
}

// SendToMany delivers the envelope to each listed client that is connected
func (h *Hub) SendToMany(ids []model.PlayerID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("marshaling envelope", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	for _, id := range ids {
		if c, ok := h.clients[id]; ok {
			_ = c.enqueue(data)
		}
	}
	h.mu.RUnlock()
}

// Close forcibly closes a client's connection with a policy-violation close
// frame. The client's read pump observes the closed connection and runs the
// normal disconnect path.
func (h *Hub) Close(id model.PlayerID, reason string) {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.closeWithReason(websocket.ClosePolicyViolation, reason)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
