package moderation

import (
	"context"
	"log/slog"

	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/storage"
)

// Closer is the transport-level forced close. Implemented by the websocket
// hub; abstracted here so moderation is testable without connections.
type Closer interface {
	Close(id model.PlayerID, reason string)
}

// Service implements the moderation policy: kick closes a connection, ban
// additionally denylists the address for the rest of the process lifetime.
// The caller runs the disconnect cascade after a successful kick or ban.
type Service struct {
	storage storage.Storage
	closer  Closer
	logger  *slog.Logger
}

// New creates a new moderation service
func New(storage storage.Storage, closer Closer, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		closer:  closer,
		logger:  logger.With(slog.String("component", "moderation")),
	}
}

// Kick forcibly closes the target's connection. Returns false when the
// target is not connected; that is a no-op, not an error.
func (s *Service) Kick(ctx context.Context, target model.PlayerID) (bool, error) {
	if _, err := s.storage.GetPlayer(ctx, target); err != nil {
		return false, nil
	}
	s.closer.Close(target, "Kicked by admin")
	s.logger.Info("player kicked", slog.String("player_id", string(target)))
	return true, nil
}

// Ban kicks the target and permanently denylists its address. Future
// connection attempts from that address are rejected at accept time.
func (s *Service) Ban(ctx context.Context, target model.PlayerID) (bool, error) {
	player, err := s.storage.GetPlayer(ctx, target)
	if err != nil {
		return false, nil
	}
	if err := s.storage.AddBannedAddr(ctx, player.Addr); err != nil {
		return false, err
	}
	s.closer.Close(target, "Banned by admin")
	s.logger.Info("player banned",
		slog.String("player_id", string(target)),
		slog.String("addr", player.Addr))
	return true, nil
}

// BanCount returns the number of denylisted addresses
func (s *Service) BanCount(ctx context.Context) (int, error) {
	return s.storage.CountBannedAddrs(ctx)
}
