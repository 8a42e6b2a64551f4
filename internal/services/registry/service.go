package registry

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dgrudge/lobby/internal/dependencies/clock"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/storage"
)

// Service is the connection registry. It owns player records and identity
// allocation; the transport layer owns the connections themselves.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new registry service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// AllocateID returns a fresh player identity. Identities are routing keys,
// not secrets; collision resistance is what matters.
func (s *Service) AllocateID() model.PlayerID {
	return model.PlayerID(uuid.NewString())
}

// CheckBanned returns ErrAddressBanned when the given address is on the ban
// list. Called at accept time, before any player record exists.
func (s *Service) CheckBanned(ctx context.Context, addr string) error {
	banned, err := s.storage.IsBannedAddr(ctx, addr)
	if err != nil {
		return err
	}
	if banned {
		return model.ErrAddressBanned
	}
	return nil
}

// Register creates (or refreshes) the player record for an accepted
// connection. Re-registering overwrites the hero descriptor.
func (s *Service) Register(ctx context.Context, id model.PlayerID, hero json.RawMessage, addr string) (*model.Player, error) {
	player := &model.Player{
		ID:          id,
		Hero:        hero,
		Addr:        addr,
		ConnectedAt: s.clock.Now(),
	}
	if existing, err := s.storage.GetPlayer(ctx, id); err == nil {
		player.RoomID = existing.RoomID
		player.ConnectedAt = existing.ConnectedAt
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	s.logger.Info("player registered",
		slog.String("player_id", string(id)),
		slog.String("hero", player.HeroName()))
	return player, nil
}

// Unregister removes the player record. Unknown ids are a no-op.
func (s *Service) Unregister(ctx context.Context, id model.PlayerID) error {
	if _, err := s.storage.GetPlayer(ctx, id); err != nil {
		return nil
	}
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return err
	}
	s.logger.Info("player unregistered", slog.String("player_id", string(id)))
	return nil
}

// Get returns the player record for the given id
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// Snapshot returns public summaries of all registered players in connect order
func (s *Service) Snapshot(ctx context.Context) ([]model.PlayerSummary, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.PlayerSummary, len(players))
	for i, p := range players {
		summaries[i] = p.Summary()
	}
	return summaries, nil
}

// Count returns the number of registered players
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.storage.CountPlayers(ctx)
}
