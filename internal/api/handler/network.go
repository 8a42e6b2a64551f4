package handler

import (
	"net/http"

	"github.com/dgrudge/lobby/internal/api/apierr"
	"github.com/dgrudge/lobby/internal/api/response"
	"github.com/dgrudge/lobby/internal/services/launch"
)

// NetworkHandler exposes the adapter-status helper
type NetworkHandler struct{}

// NewNetworkHandler creates a network handler
func NewNetworkHandler() *NetworkHandler {
	return &NetworkHandler{}
}

// NetworkResponse is the adapter list payload
type NetworkResponse struct {
	Adapters []launch.Adapter `json:"adapters"`
}

// Status handles GET /api/network
func (h *NetworkHandler) Status(w http.ResponseWriter, r *http.Request) {
	adapters, err := launch.AdapterStatus()
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, NetworkResponse{Adapters: adapters})
}
