package ws

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgrudge/lobby/internal/dependencies/clock"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/services/registry"
)

// HandlerConfig holds configuration for the websocket accept handler
type HandlerConfig struct {
	Hub         *Hub
	Router      *Router
	Registry    *registry.Service
	Clock       clock.Clock
	IdleTimeout time.Duration
	WriteWait   time.Duration
	Logger      *slog.Logger
}

// Handler upgrades HTTP requests to websocket connections. The ban check
// runs here, before any player record exists: a banned address gets a
// policy-violation close and nothing else.
type Handler struct {
	cfg      HandlerConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the websocket accept handler
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The companion client is served from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: cfg.Logger.With(slog.String("component", "ws")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	addr := clientAddr(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("addr", addr), slog.Any("error", err))
		return
	}

	if err := h.cfg.Registry.CheckBanned(r.Context(), addr); err != nil {
		if errors.Is(err, model.ErrAddressBanned) {
			h.logger.Info("rejected banned address", slog.String("addr", addr))
			deadline := time.Now().Add(h.cfg.WriteWait)
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Banned"), deadline)
		} else {
			h.logger.Error("ban check failed", slog.String("addr", addr), slog.Any("error", err))
		}
		_ = conn.Close()
		return
	}

	id := h.cfg.Registry.AllocateID()
	client := newClient(id, addr, conn, h.cfg.Hub, h.cfg.Router, h.cfg.IdleTimeout, h.cfg.WriteWait, h.logger)
	h.cfg.Hub.Register(client)

	// Queue the connected envelope before the pumps start so it is always
	// the first message the client sees.
	h.cfg.Hub.SendTo(id, model.NewConnected(id, h.cfg.Clock.Now()))

	go client.writePump()
	go client.readPump()
}

// clientAddr extracts the remote host, without the ephemeral port, so bans
// hold across reconnects
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
