package handler

import (
	"net/http"

	"github.com/dgrudge/lobby/internal/api/response"
	"github.com/dgrudge/lobby/internal/services/registry"
	"github.com/dgrudge/lobby/internal/services/room"
)

// HealthHandler reports lobby liveness plus player and game counts
type HealthHandler struct {
	registry *registry.Service
	rooms    *room.Controller
}

// NewHealthHandler creates a health handler
func NewHealthHandler(registry *registry.Service, rooms *room.Controller) *HealthHandler {
	return &HealthHandler{registry: registry, rooms: rooms}
}

// HealthResponse is the health endpoint payload
type HealthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
	Games   int    `json:"games"`
}

// Get handles GET /health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	players, _ := h.registry.Count(r.Context())
	games, _ := h.rooms.Count(r.Context())
	response.JSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Players: players,
		Games:   games,
	})
}
