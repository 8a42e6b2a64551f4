package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// It is the only backend: lobby state is ephemeral by design.
//
// Records cross the storage boundary by value: every get, list, and save
// works on a deep copy, so callers on different locks (the message router,
// the HTTP handlers) never alias the same mutable struct.
type Storage struct {
	mu sync.RWMutex

	players     map[model.PlayerID]*model.Player
	rooms       map[model.RoomID]*model.Room
	bannedAddrs map[string]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]*model.Player),
		rooms:       make(map[model.RoomID]*model.Room),
		bannedAddrs: make(map[string]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func copyPlayer(p *model.Player) *model.Player {
	cp := *p
	if p.Hero != nil {
		cp.Hero = append([]byte(nil), p.Hero...)
	}
	return &cp
}

func copyRoom(r *model.Room) *model.Room {
	cp := *r
	cp.Members = append([]model.PlayerID(nil), r.Members...)
	return &cp
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = copyPlayer(player)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return copyPlayer(player), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, copyPlayer(p))
	}
	sort.Slice(players, func(i, j int) bool {
		if !players[i].ConnectedAt.Equal(players[j].ConnectedAt) {
			return players[i].ConnectedAt.Before(players[j].ConnectedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Storage) CountPlayers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players), nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = copyRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, copyRoom(r))
	}
	sort.Slice(rooms, func(i, j int) bool {
		if !rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
		}
		return rooms[i].ID < rooms[j].ID
	})
	return rooms, nil
}

func (s *Storage) CountRooms(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms), nil
}

// Ban list operations

func (s *Storage) AddBannedAddr(ctx context.Context, addr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bannedAddrs[addr] = struct{}{}
	return nil
}

func (s *Storage) IsBannedAddr(ctx context.Context, addr string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bannedAddrs[addr]
	return ok, nil
}

func (s *Storage) CountBannedAddrs(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bannedAddrs), nil
}
