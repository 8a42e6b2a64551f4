package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/dgrudge/lobby/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		Hero:        []byte(`{"name":"Alice"}`),
		Addr:        "10.0.0.1",
		ConnectedAt: time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.Addr, retrieved.Addr)
	s.Equal("Alice", retrieved.HeroName())
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1"})

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersInConnectOrder() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p-late", ConnectedAt: base.Add(2 * time.Minute)})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p-early", ConnectedAt: base})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "p-mid", ConnectedAt: base.Add(time.Minute)})

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.PlayerID("p-early"), players[0].ID)
	s.Equal(model.PlayerID("p-mid"), players[1].ID)
	s.Equal(model.PlayerID("p-late"), players[2].ID)
}

func (s *StorageSuite) TestCountPlayers() {
	count, err := s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-2"})

	count, err = s.storage.CountPlayers(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:        "room-1",
		Name:      "Baal runs",
		Host:      "player-1",
		Members:   []model.PlayerID{"player-1"},
		Status:    model.RoomStatusWaiting,
		CreatedAt: time.Now(),
	}

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.Name, retrieved.Name)
	s.Equal(room.Host, retrieved.Host)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})

	err := s.storage.DeleteRoom(s.ctx, "room-1")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestListRoomsInCreationOrder() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "r-second", CreatedAt: base.Add(time.Second)})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "r-first", CreatedAt: base})

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("r-first"), rooms[0].ID)
	s.Equal(model.RoomID("r-second"), rooms[1].ID)
}

func (s *StorageSuite) TestGetRoomReturnsDetachedCopy() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{
		ID:      "room-1",
		Host:    "player-1",
		Members: []model.PlayerID{"player-1"},
	})

	got, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	got.Members = append(got.Members, "player-2")
	got.Host = "player-2"

	stored, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"player-1"}, stored.Members)
	s.Equal(model.PlayerID("player-1"), stored.Host)
}

func (s *StorageSuite) TestSaveRoomDetachesFromCaller() {
	room := &model.Room{ID: "room-1", Members: []model.PlayerID{"player-1"}}
	_ = s.storage.SaveRoom(s.ctx, room)

	room.Members[0] = "someone-else"
	room.Members = append(room.Members, "player-2")

	stored, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"player-1"}, stored.Members)
}

func (s *StorageSuite) TestListRoomsReturnsDetachedCopies() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1", Members: []model.PlayerID{"player-1"}})

	listed, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	listed[0].Members = nil

	stored, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"player-1"}, stored.Members)
}

func (s *StorageSuite) TestGetPlayerReturnsDetachedCopy() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{
		ID:   "player-1",
		Hero: []byte(`{"name":"Alice"}`),
	})

	got, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	got.RoomID = "room-1"
	got.Hero[2] = 'X'

	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.False(stored.InRoom())
	s.Equal("Alice", stored.HeroName())
}

func (s *StorageSuite) TestCountRooms() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1"})

	count, err := s.storage.CountRooms(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

// Ban list tests

func (s *StorageSuite) TestBannedAddr() {
	banned, err := s.storage.IsBannedAddr(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.False(banned)

	err = s.storage.AddBannedAddr(s.ctx, "10.0.0.1")
	s.Require().NoError(err)

	banned, err = s.storage.IsBannedAddr(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.True(banned)
}

func (s *StorageSuite) TestBanIsIdempotent() {
	_ = s.storage.AddBannedAddr(s.ctx, "10.0.0.1")
	_ = s.storage.AddBannedAddr(s.ctx, "10.0.0.1")

	count, err := s.storage.CountBannedAddrs(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}
