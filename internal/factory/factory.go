package factory

import (
	"log/slog"
	"net/http"

	"github.com/dgrudge/lobby/internal/api"
	"github.com/dgrudge/lobby/internal/config"
	"github.com/dgrudge/lobby/internal/dependencies/clock"
	"github.com/dgrudge/lobby/internal/services/character"
	"github.com/dgrudge/lobby/internal/services/launch"
	"github.com/dgrudge/lobby/internal/services/moderation"
	"github.com/dgrudge/lobby/internal/services/registry"
	"github.com/dgrudge/lobby/internal/services/room"
	"github.com/dgrudge/lobby/internal/storage"
	"github.com/dgrudge/lobby/internal/storage/memory"
	"github.com/dgrudge/lobby/internal/ws"
)

// App holds the fully wired application
type App struct {
	Storage    storage.Storage
	Clock      clock.Clock
	Registry   *registry.Service
	Rooms      *room.Controller
	Moderation *moderation.Service
	Characters *character.Manager
	Launcher   *launch.Launcher
	Hub        *ws.Hub
	Router     *ws.Router
	Handler    http.Handler
}

// New assembles the application from configuration
func New(cfg config.Config, logger *slog.Logger) *App {
	return newApp(cfg, logger, clock.New())
}

// NewWithClock assembles the application with an injected clock, for tests
func NewWithClock(cfg config.Config, logger *slog.Logger, clk clock.Clock) *App {
	return newApp(cfg, logger, clk)
}

func newApp(cfg config.Config, logger *slog.Logger, clk clock.Clock) *App {
	store := memory.New()

	registrySvc := registry.New(store, clk, logger)
	rooms := room.NewController(store, clk, logger)
	hub := ws.NewHub(logger)
	moderationSvc := moderation.New(store, hub, logger)
	router := ws.NewRouter(registrySvc, rooms, moderationSvc, hub, clk, cfg.Admin.Key, logger)

	characters := character.NewManager(cfg.Saves.Dir, cfg.Saves.ActiveDir, clk, logger)
	launcher := launch.New(characters, cfg.Launch.GamePath, logger)

	wsHandler := ws.NewHandler(ws.HandlerConfig{
		Hub:         hub,
		Router:      router,
		Registry:    registrySvc,
		Clock:       clk,
		IdleTimeout: cfg.Server.IdleTimeout,
		WriteWait:   cfg.Server.WriteTimeout,
		Logger:      logger,
	})

	handler := api.NewRouter(api.RouterConfig{
		Logger:     logger,
		Registry:   registrySvc,
		Rooms:      rooms,
		Characters: characters,
		Launcher:   launcher,
		WSHandler:  wsHandler,
		StaticDir:  cfg.Server.StaticDir,
	})

	return &App{
		Storage:    store,
		Clock:      clk,
		Registry:   registrySvc,
		Rooms:      rooms,
		Moderation: moderationSvc,
		Characters: characters,
		Launcher:   launcher,
		Hub:        hub,
		Router:     router,
		Handler:    handler,
	}
}
