package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dgrudge/lobby/internal/api/apierr"
	"github.com/dgrudge/lobby/internal/api/response"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/services/character"
	"github.com/dgrudge/lobby/internal/services/launch"
)

// CharacterHandler exposes the per-user character registry and launch flow
type CharacterHandler struct {
	characters *character.Manager
	launcher   *launch.Launcher
}

// NewCharacterHandler creates a character handler
func NewCharacterHandler(characters *character.Manager, launcher *launch.Launcher) *CharacterHandler {
	return &CharacterHandler{characters: characters, launcher: launcher}
}

// CreateCharacterRequest is the create payload
type CreateCharacterRequest struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Hardcore bool   `json:"hardcore"`
}

// CharactersResponse is the list payload
type CharactersResponse struct {
	Characters map[string]model.CharacterMeta `json:"characters"`
}

// ActivateResponse carries the activated save path
type ActivateResponse struct {
	Path string `json:"path"`
}

// List handles GET /api/users/{user_id}/characters
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]
	characters, err := h.characters.List(r.Context(), userID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, CharactersResponse{Characters: characters})
}

// Create handles POST /api/users/{user_id}/characters
func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var req CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid JSON body"))
		return
	}

	created, err := h.characters.Create(r.Context(), userID, req.Name, model.CharacterClass(req.Class), req.Hardcore)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// Delete handles DELETE /api/users/{user_id}/characters/{name}
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.characters.Delete(r.Context(), vars["user_id"], vars["name"]); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Activate handles POST /api/users/{user_id}/characters/{name}/activate
func (h *CharacterHandler) Activate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	path, err := h.characters.Activate(r.Context(), vars["user_id"], vars["name"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, ActivateResponse{Path: path})
}

// Sync handles POST /api/users/{user_id}/characters/{name}/sync
func (h *CharacterHandler) Sync(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.characters.SyncBack(r.Context(), vars["user_id"], vars["name"]); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Launch handles POST /api/users/{user_id}/characters/{name}/launch
func (h *CharacterHandler) Launch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	path, err := h.launcher.Launch(r.Context(), vars["user_id"], vars["name"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, ActivateResponse{Path: path})
}
