package handler

import (
	"net/http"

	"github.com/dgrudge/lobby/internal/api/apierr"
	"github.com/dgrudge/lobby/internal/api/response"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/services/room"
)

// GamesHandler exposes the read-only room directory
type GamesHandler struct {
	rooms *room.Controller
}

// NewGamesHandler creates a games handler
func NewGamesHandler(rooms *room.Controller) *GamesHandler {
	return &GamesHandler{rooms: rooms}
}

// GamesResponse is the game list payload
type GamesResponse struct {
	Games []model.RoomSummary `json:"games"`
}

// List handles GET /api/games
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.rooms.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, GamesResponse{Games: games})
}
