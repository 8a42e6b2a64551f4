package factory_test

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/dgrudge/lobby/internal/config"
	"github.com/dgrudge/lobby/internal/factory"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/testutil"
)

const readWait = 5 * time.Second

// serverEnvelope is a union of every outbound payload, so one read loop can
// decode whatever the server sends
type serverEnvelope struct {
	Type       string                `json:"type"`
	PlayerID   model.PlayerID        `json:"playerId"`
	ServerTime int64                 `json:"serverTime"`
	Players    []model.PlayerSummary `json:"players"`
	Game       model.RoomSummary     `json:"game"`
	GameID     model.RoomID          `json:"gameId"`
	IsHost     bool                  `json:"isHost"`
	HostID     model.PlayerID        `json:"hostId"`
	Games      []model.RoomSummary   `json:"games"`
	From       string                `json:"from"`
	Message    string                `json:"message"`
	Player     model.PlayerRef       `json:"player"`
	Stats      model.AdminStats      `json:"stats"`
}

type IntegrationSuite struct {
	suite.Suite
	app    *factory.App
	server *httptest.Server
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	root := s.T().TempDir()
	cfg := config.Config{
		Server: config.ServerConfig{
			Port:         3000,
			IdleTimeout:  time.Minute,
			WriteTimeout: 10 * time.Second,
		},
		Admin: config.AdminConfig{Key: "test-admin-key"},
		Saves: config.SavesConfig{
			Dir:       filepath.Join(root, "saves"),
			ActiveDir: filepath.Join(root, "saves", "active"),
		},
	}
	s.app = factory.New(cfg, testutil.NopLogger())
	s.server = httptest.NewServer(s.app.Handler)
}

func (s *IntegrationSuite) TearDownTest() {
	s.server.Close()
}

func (s *IntegrationSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads envelopes until one of the wanted type arrives, skipping
// interleaved broadcasts
func (s *IntegrationSuite) readUntil(conn *websocket.Conn, wantType string) serverEnvelope {
	deadline := time.Now().Add(readWait)
	s.Require().NoError(conn.SetReadDeadline(deadline))
	for {
		var env serverEnvelope
		s.Require().NoError(conn.ReadJSON(&env), "waiting for %q", wantType)
		if env.Type == wantType {
			return env
		}
		s.Require().False(time.Now().After(deadline), "no %q envelope arrived", wantType)
	}
}

func (s *IntegrationSuite) send(conn *websocket.Conn, env model.ClientEnvelope) {
	s.Require().NoError(conn.WriteJSON(env))
}

// connect dials, waits for the connected envelope, and registers a hero,
// waiting for the resulting roster broadcast so the registration is visible
// to other connections before this returns
func (s *IntegrationSuite) connect(name string) (*websocket.Conn, model.PlayerID) {
	conn := s.dial()
	connected := s.readUntil(conn, model.TypeConnected)
	s.Require().NotEmpty(connected.PlayerID)

	s.send(conn, model.ClientEnvelope{
		Type: model.TypeRegister,
		Hero: json.RawMessage(`{"name":"` + name + `"}`),
	})
	s.readUntil(conn, model.TypePlayerList)
	return conn, connected.PlayerID
}

func (s *IntegrationSuite) TestConnectAssignsIdentity() {
	a := s.dial()
	b := s.dial()

	first := s.readUntil(a, model.TypeConnected)
	second := s.readUntil(b, model.TypeConnected)

	s.NotEmpty(first.PlayerID)
	s.NotEmpty(second.PlayerID)
	s.NotEqual(first.PlayerID, second.PlayerID)
	s.InDelta(time.Now().UnixMilli(), first.ServerTime, float64(10*time.Second/time.Millisecond))
}

func (s *IntegrationSuite) TestRegisterBroadcastsRoster() {
	a, aID := s.connect("Alice")
	_, bID := s.connect("Bob")

	// Alice sees the refreshed roster once Bob registers, in connect order.
	list := s.readUntil(a, model.TypePlayerList)
	s.Require().Len(list.Players, 2)
	s.Equal(aID, list.Players[0].ID)
	s.Equal(bID, list.Players[1].ID)
}

func (s *IntegrationSuite) TestGameLifecycleOverWire() {
	a, _ := s.connect("Alice")
	b, bID := s.connect("Bob")

	// Alice hosts.
	s.send(a, model.ClientEnvelope{Type: model.TypeCreateGame, GameName: "Baal runs"})
	created := s.readUntil(b, model.TypeGameCreated)
	s.Equal("Baal runs", created.Game.Name)

	joinedHost := s.readUntil(a, model.TypeJoinedGame)
	s.True(joinedHost.IsHost)

	// Bob joins.
	s.send(b, model.ClientEnvelope{Type: model.TypeJoinGame, GameID: created.Game.ID})
	joined := s.readUntil(b, model.TypeJoinedGame)
	s.Equal(created.Game.ID, joined.GameID)
	s.False(joined.IsHost)

	announce := s.readUntil(a, model.TypePlayerJoined)
	s.Equal(bID, announce.Player.ID)

	// Room chat reaches both members.
	s.send(b, model.ClientEnvelope{Type: model.TypeChat, Message: "ready"})
	chat := s.readUntil(a, model.TypeChat)
	s.Equal("Bob", chat.From)
	s.Equal("ready", chat.Message)

	// Host drops; Bob inherits the game.
	s.Require().NoError(a.Close())
	newHost := s.readUntil(b, model.TypeNewHost)
	s.Equal(bID, newHost.HostID)

	// Bob leaves; the game closes.
	s.send(b, model.ClientEnvelope{Type: model.TypeLeaveGame})
	closed := s.readUntil(b, model.TypeGameClosed)
	s.Equal(created.Game.ID, closed.GameID)
}

func (s *IntegrationSuite) TestGetGamesOverWire() {
	a, _ := s.connect("Alice")
	s.send(a, model.ClientEnvelope{Type: model.TypeCreateGame, GameName: "Cows", Password: "moo"})
	s.readUntil(a, model.TypeJoinedGame)

	b, _ := s.connect("Bob")
	s.send(b, model.ClientEnvelope{Type: model.TypeGetGames})
	list := s.readUntil(b, model.TypeGamesList)

	s.Require().Len(list.Games, 1)
	s.Equal("Cows", list.Games[0].Name)
	s.True(list.Games[0].HasPassword)
}

func (s *IntegrationSuite) TestAdminStatsOverWire() {
	s.connect("Alice")

	admin := s.dial()
	s.readUntil(admin, model.TypeConnected)
	s.send(admin, model.ClientEnvelope{Type: model.TypeAdminStats, AdminKey: "test-admin-key"})

	stats := s.readUntil(admin, model.TypeAdminStats)
	s.Equal(1, stats.Stats.Players)
	s.Equal(0, stats.Stats.Games)
}

func (s *IntegrationSuite) TestAdminKickOverWire() {
	target, targetID := s.connect("Alice")

	admin := s.dial()
	s.readUntil(admin, model.TypeConnected)
	s.send(admin, model.ClientEnvelope{
		Type:     model.TypeAdminKick,
		AdminKey: "test-admin-key",
		TargetID: targetID,
	})

	s.Require().NoError(target.SetReadDeadline(time.Now().Add(readWait)))
	var closeErr *websocket.CloseError
	for {
		var env serverEnvelope
		if err := target.ReadJSON(&env); err != nil {
			s.Require().ErrorAs(err, &closeErr)
			break
		}
	}
	s.Equal(websocket.ClosePolicyViolation, closeErr.Code)
	s.Equal("Kicked by admin", closeErr.Text)
}

func (s *IntegrationSuite) TestBanRejectsReconnect() {
	target, targetID := s.connect("Alice")

	admin := s.dial()
	s.readUntil(admin, model.TypeConnected)
	s.send(admin, model.ClientEnvelope{
		Type:     model.TypeAdminBan,
		AdminKey: "test-admin-key",
		TargetID: targetID,
	})

	// The banned connection is closed first.
	s.Require().NoError(target.SetReadDeadline(time.Now().Add(readWait)))
	for {
		var env serverEnvelope
		if err := target.ReadJSON(&env); err != nil {
			break
		}
	}

	// Everything in this test comes from the loopback address, so a fresh
	// dial now hits the denylist and is closed at accept.
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(readWait)))
	var env serverEnvelope
	readErr := conn.ReadJSON(&env)
	var closeErr *websocket.CloseError
	s.Require().ErrorAs(readErr, &closeErr)
	s.Equal(websocket.ClosePolicyViolation, closeErr.Code)
	s.Equal("Banned", closeErr.Text)
}
