package model

import (
	"encoding/json"
	"time"
)

// PlayerID uniquely identifies a player for the lifetime of its connection
type PlayerID string

// Player represents one live lobby connection. The record exists from the
// moment the client registers its hero until the connection goes away.
type Player struct {
	ID          PlayerID
	Hero        json.RawMessage // client-supplied hero descriptor, opaque to the server
	Addr        string          // remote network address, used for ban checks
	RoomID      RoomID          // empty when the player is not in a room
	ConnectedAt time.Time
}

// InRoom reports whether the player currently has a room binding
func (p *Player) InRoom() bool {
	return p.RoomID != ""
}

// HeroName extracts the display name from the hero descriptor.
// Falls back to the player id when the descriptor carries no name.
func (p *Player) HeroName() string {
	var hero struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(p.Hero, &hero); err == nil && hero.Name != "" {
		return hero.Name
	}
	return string(p.ID)
}

// PlayerSummary is the public view of a player carried in player_list broadcasts
type PlayerSummary struct {
	ID     PlayerID        `json:"id"`
	Hero   json.RawMessage `json:"hero"`
	InGame bool            `json:"inGame"`
}

// PlayerRef identifies a player to other room members (player_joined)
type PlayerRef struct {
	ID   PlayerID        `json:"id"`
	Hero json.RawMessage `json:"hero"`
}

// Summary returns the player's public view
func (p *Player) Summary() PlayerSummary {
	return PlayerSummary{
		ID:     p.ID,
		Hero:   p.Hero,
		InGame: p.InRoom(),
	}
}

// Ref returns the player's room-member view
func (p *Player) Ref() PlayerRef {
	return PlayerRef{ID: p.ID, Hero: p.Hero}
}
