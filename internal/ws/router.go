package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgrudge/lobby/internal/dependencies/clock"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/services/moderation"
	"github.com/dgrudge/lobby/internal/services/registry"
	"github.com/dgrudge/lobby/internal/services/room"
)

// Router is the single dispatch entry point for inbound envelopes. One mutex
// serializes all registry and room mutations: an envelope is fully processed,
// including its broadcasts, before the next one touches shared state.
type Router struct {
	mu sync.Mutex

	registry   *registry.Service
	rooms      *room.Controller
	moderation *moderation.Service
	sender     Sender
	clock      clock.Clock

	adminKey  string
	startedAt time.Time
	logger    *slog.Logger
}

// NewRouter creates a message router
func NewRouter(
	registry *registry.Service,
	rooms *room.Controller,
	moderation *moderation.Service,
	sender Sender,
	clock clock.Clock,
	adminKey string,
	logger *slog.Logger,
) *Router {
	return &Router{
		registry:   registry,
		rooms:      rooms,
		moderation: moderation,
		sender:     sender,
		clock:      clock,
		adminKey:   adminKey,
		startedAt:  clock.Now(),
		logger:     logger.With(slog.String("component", "router")),
	}
}

// Dispatch parses and handles one inbound envelope. Malformed or
// unrecognized input is dropped with a log line only: no reply, no teardown.
func (r *Router) Dispatch(ctx context.Context, id model.PlayerID, addr string, data []byte) {
	var env model.ClientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.logger.Warn("dropping malformed envelope",
			slog.String("player_id", string(id)),
			slog.Any("error", err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch env.Type {
	case model.TypeRegister:
		r.handleRegister(ctx, id, addr, env)
	case model.TypeChat:
		r.handleChat(ctx, id, env)
	case model.TypeCreateGame:
		r.handleCreateGame(ctx, id, env)
	case model.TypeJoinGame:
		r.handleJoinGame(ctx, id, env)
	case model.TypeLeaveGame:
		r.leaveRoomLocked(ctx, id)
	case model.TypeGetGames:
		r.handleGetGames(ctx, id)
	case model.TypeAdminKick:
		r.handleAdminKick(ctx, env)
	case model.TypeAdminBan:
		r.handleAdminBan(ctx, env)
	case model.TypeAdminStats:
		r.handleAdminStats(ctx, id, env)
	default:
		r.logger.Warn("dropping unrecognized envelope",
			slog.String("player_id", string(id)),
			slog.String("type", env.Type))
	}
}

// Disconnect runs the full cleanup cascade for a departed connection: room
// departure, registry removal, player-list broadcast. Idempotent; the read
// pump and the moderation path may both reach it.
func (r *Router) Disconnect(ctx context.Context, id model.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnectLocked(ctx, id)
}

func (r *Router) disconnectLocked(ctx context.Context, id model.PlayerID) {
	player, err := r.registry.Get(ctx, id)
	if err != nil {
		return
	}

	r.leaveRoomLocked(ctx, id)
	if err := r.registry.Unregister(ctx, id); err != nil {
		r.logger.Error("unregistering player", slog.String("player_id", string(id)), slog.Any("error", err))
	}
	r.broadcastPlayerListLocked(ctx)
	r.logger.Info("player left lobby",
		slog.String("player_id", string(id)),
		slog.String("hero", player.HeroName()))
}

func (r *Router) handleRegister(ctx context.Context, id model.PlayerID, addr string, env model.ClientEnvelope) {
	if len(env.Hero) == 0 {
		r.logger.Warn("dropping register without hero", slog.String("player_id", string(id)))
		return
	}
	if _, err := r.registry.Register(ctx, id, env.Hero, addr); err != nil {
		r.logger.Error("registering player", slog.String("player_id", string(id)), slog.Any("error", err))
		return
	}
	r.broadcastPlayerListLocked(ctx)
}

func (r *Router) handleChat(ctx context.Context, id model.PlayerID, env model.ClientEnvelope) {
	player, err := r.registry.Get(ctx, id)
	if err != nil {
		return
	}

	chat := model.NewChat(player.HeroName(), env.Message, r.clock.Now())
	if !player.InRoom() {
		r.sender.Broadcast(chat)
		return
	}

	current, err := r.rooms.Get(ctx, player.RoomID)
	if err != nil {
		return
	}
	r.sender.SendToMany(current.Members, chat)
}

func (r *Router) handleCreateGame(ctx context.Context, id model.PlayerID, env model.ClientEnvelope) {
	created, err := r.rooms.Create(ctx, id, env.GameName, env.Password)
	if err != nil {
		if errors.Is(err, model.ErrAlreadyInRoom) {
			r.sender.SendTo(id, model.NewError("Already in a game"))
		}
		return
	}

	r.sender.Broadcast(model.NewGameCreated(created.Summary()))
	r.sender.SendTo(id, model.NewJoinedGame(created.ID, true))
}

func (r *Router) handleJoinGame(ctx context.Context, id model.PlayerID, env model.ClientEnvelope) {
	joined, err := r.rooms.Join(ctx, id, env.GameID, env.Password)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrWrongPassword):
			r.sender.SendTo(id, model.NewError("Wrong password"))
		case errors.Is(err, model.ErrRoomFull):
			r.sender.SendTo(id, model.NewError("Game full"))
		case errors.Is(err, model.ErrAlreadyInRoom):
			r.sender.SendTo(id, model.NewError("Already in a game"))
		}
		// Unknown room or unregistered player: nothing to say.
		return
	}

	player, err := r.registry.Get(ctx, id)
	if err != nil {
		return
	}

	r.sender.SendTo(id, model.NewJoinedGame(joined.ID, false))

	others := make([]model.PlayerID, 0, len(joined.Members)-1)
	for _, m := range joined.Members {
		if m != id {
			others = append(others, m)
		}
	}
	r.sender.SendToMany(others, model.NewPlayerJoined(player.Ref()))
}

// leaveRoomLocked removes the player from its room and issues exactly one of
// the three departure broadcasts
func (r *Router) leaveRoomLocked(ctx context.Context, id model.PlayerID) {
	res, err := r.rooms.Leave(ctx, id)
	if err != nil {
		r.logger.Error("leaving room", slog.String("player_id", string(id)), slog.Any("error", err))
		return
	}

	switch res.Outcome {
	case room.LeaveRoomClosed:
		r.sender.Broadcast(model.NewGameClosed(res.RoomID))
	case room.LeaveHostChanged:
		r.sender.SendToMany(res.Remaining, model.NewNewHost(res.NewHost))
	case room.LeavePlayerLeft:
		r.sender.SendToMany(res.Remaining, model.NewPlayerLeft(id))
	}
}

func (r *Router) handleGetGames(ctx context.Context, id model.PlayerID) {
	games, err := r.rooms.List(ctx)
	if err != nil {
		r.logger.Error("listing rooms", slog.Any("error", err))
		return
	}
	r.sender.SendTo(id, model.NewGamesList(games))
}

// authorized checks the shared admin secret. A mismatch is a silent no-op
// toward the requester; only operators see the log line.
func (r *Router) authorized(env model.ClientEnvelope) bool {
	if env.AdminKey != r.adminKey {
		r.logger.Warn("rejected admin envelope", slog.String("type", env.Type))
		return false
	}
	return true
}

func (r *Router) handleAdminKick(ctx context.Context, env model.ClientEnvelope) {
	if !r.authorized(env) {
		return
	}
	kicked, err := r.moderation.Kick(ctx, env.TargetID)
	if err != nil {
		r.logger.Error("kicking player", slog.Any("error", err))
		return
	}
	if kicked {
		r.disconnectLocked(ctx, env.TargetID)
	}
}

func (r *Router) handleAdminBan(ctx context.Context, env model.ClientEnvelope) {
	if !r.authorized(env) {
		return
	}
	banned, err := r.moderation.Ban(ctx, env.TargetID)
	if err != nil {
		r.logger.Error("banning player", slog.Any("error", err))
		return
	}
	if banned {
		r.disconnectLocked(ctx, env.TargetID)
	}
}

func (r *Router) handleAdminStats(ctx context.Context, id model.PlayerID, env model.ClientEnvelope) {
	if !r.authorized(env) {
		return
	}

	players, _ := r.registry.Count(ctx)
	games, _ := r.rooms.Count(ctx)
	bans, _ := r.moderation.BanCount(ctx)
	r.sender.SendTo(id, model.NewAdminStats(model.AdminStats{
		Players:   players,
		Games:     games,
		BannedIPs: bans,
		Uptime:    r.clock.Now().Sub(r.startedAt).Seconds(),
	}))
}

func (r *Router) broadcastPlayerListLocked(ctx context.Context) {
	players, err := r.registry.Snapshot(ctx)
	if err != nil {
		r.logger.Error("snapshotting players", slog.Any("error", err))
		return
	}
	r.sender.Broadcast(model.NewPlayerList(players))
}
