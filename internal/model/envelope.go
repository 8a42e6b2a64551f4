package model

import (
	"encoding/json"
	"time"
)

// Inbound envelope types
const (
	TypeRegister   = "register"
	TypeChat       = "chat"
	TypeCreateGame = "create_game"
	TypeJoinGame   = "join_game"
	TypeLeaveGame  = "leave_game"
	TypeGetGames   = "get_games"
	TypeAdminKick  = "admin_kick"
	TypeAdminBan   = "admin_ban"
	TypeAdminStats = "admin_stats"
)

// Outbound envelope types
const (
	TypeConnected    = "connected"
	TypePlayerList   = "player_list"
	TypeGameCreated  = "game_created"
	TypeGameClosed   = "game_closed"
	TypeJoinedGame   = "joined_game"
	TypePlayerJoined = "player_joined"
	TypePlayerLeft   = "player_left"
	TypeNewHost      = "new_host"
	TypeGamesList    = "games_list"
	TypeError        = "error"
)

// ClientEnvelope is the inbound wire format. It is a single flat structure;
// which fields are meaningful depends on Type.
type ClientEnvelope struct {
	Type     string          `json:"type"`
	Hero     json.RawMessage `json:"hero,omitempty"`
	Message  string          `json:"message,omitempty"`
	GameName string          `json:"gameName,omitempty"`
	GameID   RoomID          `json:"gameId,omitempty"`
	Password string          `json:"password,omitempty"`
	AdminKey string          `json:"adminKey,omitempty"`
	TargetID PlayerID        `json:"targetId,omitempty"`
}

// ConnectedEnvelope is sent once, immediately after a connection is accepted
type ConnectedEnvelope struct {
	Type       string   `json:"type"`
	PlayerID   PlayerID `json:"playerId"`
	ServerTime int64    `json:"serverTime"`
}

// NewConnected builds a connected envelope
func NewConnected(id PlayerID, now time.Time) ConnectedEnvelope {
	return ConnectedEnvelope{Type: TypeConnected, PlayerID: id, ServerTime: now.UnixMilli()}
}

// PlayerListEnvelope carries the full player snapshot, broadcast globally
type PlayerListEnvelope struct {
	Type    string          `json:"type"`
	Players []PlayerSummary `json:"players"`
}

// NewPlayerList builds a player_list envelope
func NewPlayerList(players []PlayerSummary) PlayerListEnvelope {
	return PlayerListEnvelope{Type: TypePlayerList, Players: players}
}

// ChatEnvelope relays a chat line, globally or room-scoped
type ChatEnvelope struct {
	Type      string `json:"type"`
	From      string `json:"from"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// NewChat builds a chat envelope
func NewChat(from, message string, now time.Time) ChatEnvelope {
	return ChatEnvelope{Type: TypeChat, From: from, Message: message, Timestamp: now.UnixMilli()}
}

// GameCreatedEnvelope announces a new room, broadcast globally
type GameCreatedEnvelope struct {
	Type string      `json:"type"`
	Game RoomSummary `json:"game"`
}

// NewGameCreated builds a game_created envelope
func NewGameCreated(game RoomSummary) GameCreatedEnvelope {
	return GameCreatedEnvelope{Type: TypeGameCreated, Game: game}
}

// GameClosedEnvelope announces room teardown, broadcast globally
type GameClosedEnvelope struct {
	Type   string `json:"type"`
	GameID RoomID `json:"gameId"`
}

// NewGameClosed builds a game_closed envelope
func NewGameClosed(id RoomID) GameClosedEnvelope {
	return GameClosedEnvelope{Type: TypeGameClosed, GameID: id}
}

// JoinedGameEnvelope confirms room entry to the requester only
type JoinedGameEnvelope struct {
	Type   string `json:"type"`
	GameID RoomID `json:"gameId"`
	IsHost bool   `json:"isHost"`
}

// NewJoinedGame builds a joined_game envelope
func NewJoinedGame(id RoomID, isHost bool) JoinedGameEnvelope {
	return JoinedGameEnvelope{Type: TypeJoinedGame, GameID: id, IsHost: isHost}
}

// PlayerJoinedEnvelope tells existing room members about a new member
type PlayerJoinedEnvelope struct {
	Type   string    `json:"type"`
	Player PlayerRef `json:"player"`
}

// NewPlayerJoined builds a player_joined envelope
func NewPlayerJoined(player PlayerRef) PlayerJoinedEnvelope {
	return PlayerJoinedEnvelope{Type: TypePlayerJoined, Player: player}
}

// PlayerLeftEnvelope tells remaining room members a non-host member left
type PlayerLeftEnvelope struct {
	Type     string   `json:"type"`
	PlayerID PlayerID `json:"playerId"`
}

// NewPlayerLeft builds a player_left envelope
func NewPlayerLeft(id PlayerID) PlayerLeftEnvelope {
	return PlayerLeftEnvelope{Type: TypePlayerLeft, PlayerID: id}
}

// NewHostEnvelope tells remaining room members who succeeded the host
type NewHostEnvelope struct {
	Type   string   `json:"type"`
	HostID PlayerID `json:"hostId"`
}

// NewNewHost builds a new_host envelope
func NewNewHost(id PlayerID) NewHostEnvelope {
	return NewHostEnvelope{Type: TypeNewHost, HostID: id}
}

// GamesListEnvelope answers a get_games query, single recipient
type GamesListEnvelope struct {
	Type  string        `json:"type"`
	Games []RoomSummary `json:"games"`
}

// NewGamesList builds a games_list envelope
func NewGamesList(games []RoomSummary) GamesListEnvelope {
	return GamesListEnvelope{Type: TypeGamesList, Games: games}
}

// AdminStats is the privileged counters payload
type AdminStats struct {
	Players   int     `json:"players"`
	Games     int     `json:"games"`
	BannedIPs int     `json:"bannedIPs"`
	Uptime    float64 `json:"uptime"` // seconds
}

// AdminStatsEnvelope answers an admin_stats query, single recipient
type AdminStatsEnvelope struct {
	Type  string     `json:"type"`
	Stats AdminStats `json:"stats"`
}

// NewAdminStats builds an admin_stats envelope
func NewAdminStats(stats AdminStats) AdminStatsEnvelope {
	return AdminStatsEnvelope{Type: TypeAdminStats, Stats: stats}
}

// ErrorEnvelope reports a domain error to the requesting connection only
type ErrorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError builds an error envelope
func NewError(message string) ErrorEnvelope {
	return ErrorEnvelope{Type: TypeError, Message: message}
}
