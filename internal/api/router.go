package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dgrudge/lobby/internal/api/apierr"
	"github.com/dgrudge/lobby/internal/api/handler"
	"github.com/dgrudge/lobby/internal/middleware"
	"github.com/dgrudge/lobby/internal/services/character"
	"github.com/dgrudge/lobby/internal/services/launch"
	"github.com/dgrudge/lobby/internal/services/registry"
	"github.com/dgrudge/lobby/internal/services/room"
)

// RouterConfig holds the dependencies the HTTP surface needs
type RouterConfig struct {
	Logger     *slog.Logger
	Registry   *registry.Service
	Rooms      *room.Controller
	Characters *character.Manager
	Launcher   *launch.Launcher
	// WSHandler serves websocket upgrades on /ws
	WSHandler http.Handler
	// StaticDir is served at / for the companion client; empty disables it
	StaticDir string
}

// NewRouter creates the HTTP router: the read-only companion surface, the
// character registry REST endpoints, the websocket upgrade, and static assets
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	healthHandler := handler.NewHealthHandler(cfg.Registry, cfg.Rooms)
	gamesHandler := handler.NewGamesHandler(cfg.Rooms)
	characterHandler := handler.NewCharacterHandler(cfg.Characters, cfg.Launcher)
	networkHandler := handler.NewNetworkHandler()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewInternalError())
	})
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Handle("/ws", cfg.WSHandler)
	r.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/games", gamesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/network", networkHandler.Status).Methods(http.MethodGet)

	characters := api.PathPrefix("/users/{user_id}/characters").Subrouter()
	characters.HandleFunc("", characterHandler.List).Methods(http.MethodGet)
	characters.HandleFunc("", characterHandler.Create).Methods(http.MethodPost)
	characters.HandleFunc("/{name}", characterHandler.Delete).Methods(http.MethodDelete)
	characters.HandleFunc("/{name}/activate", characterHandler.Activate).Methods(http.MethodPost)
	characters.HandleFunc("/{name}/sync", characterHandler.Sync).Methods(http.MethodPost)
	characters.HandleFunc("/{name}/launch", characterHandler.Launch).Methods(http.MethodPost)

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
