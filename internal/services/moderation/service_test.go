package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/storage/memory"
	"github.com/dgrudge/lobby/internal/testutil"
)

type closeCall struct {
	id     model.PlayerID
	reason string
}

type fakeCloser struct {
	calls []closeCall
}

func (f *fakeCloser) Close(id model.PlayerID, reason string) {
	f.calls = append(f.calls, closeCall{id: id, reason: reason})
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	closer  *fakeCloser
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.closer = &fakeCloser{}
	s.service = New(s.storage, s.closer, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) addPlayer(id, addr string) {
	err := s.storage.SavePlayer(s.ctx, &model.Player{ID: model.PlayerID(id), Addr: addr})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestKickClosesConnection() {
	s.addPlayer("player-1", "10.0.0.1")

	kicked, err := s.service.Kick(s.ctx, "player-1")
	s.Require().NoError(err)
	s.True(kicked)

	s.Require().Len(s.closer.calls, 1)
	s.Equal(model.PlayerID("player-1"), s.closer.calls[0].id)
	s.Equal("Kicked by admin", s.closer.calls[0].reason)
}

func (s *ServiceSuite) TestKickUnknownTargetIsNoOp() {
	kicked, err := s.service.Kick(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.False(kicked)
	s.Empty(s.closer.calls)
}

func (s *ServiceSuite) TestKickDoesNotBan() {
	s.addPlayer("player-1", "10.0.0.1")

	_, _ = s.service.Kick(s.ctx, "player-1")

	banned, err := s.storage.IsBannedAddr(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.False(banned)
}

func (s *ServiceSuite) TestBanDenylistsAddressAndCloses() {
	s.addPlayer("player-1", "10.0.0.1")

	banned, err := s.service.Ban(s.ctx, "player-1")
	s.Require().NoError(err)
	s.True(banned)

	onList, err := s.storage.IsBannedAddr(s.ctx, "10.0.0.1")
	s.Require().NoError(err)
	s.True(onList)

	s.Require().Len(s.closer.calls, 1)
	s.Equal("Banned by admin", s.closer.calls[0].reason)
}

func (s *ServiceSuite) TestBanUnknownTargetIsNoOp() {
	banned, err := s.service.Ban(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.False(banned)
	s.Empty(s.closer.calls)

	count, _ := s.service.BanCount(s.ctx)
	s.Equal(0, count)
}

func (s *ServiceSuite) TestBanCount() {
	s.addPlayer("player-1", "10.0.0.1")
	s.addPlayer("player-2", "10.0.0.2")

	_, _ = s.service.Ban(s.ctx, "player-1")
	_, _ = s.service.Ban(s.ctx, "player-2")

	count, err := s.service.BanCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
