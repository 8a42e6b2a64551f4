package model

import "time"

// RoomID uniquely identifies a game room
type RoomID string

// RoomStatus represents the lifecycle state of a room. Only waiting exists
// today; the enumeration leaves space for in-progress or closing states.
type RoomStatus string

const (
	RoomStatusWaiting RoomStatus = "waiting"
)

// MaxRoomPlayers is the fixed room capacity
const MaxRoomPlayers = 8

// Room is a named grouping of up to MaxRoomPlayers players with one host.
// A room exists if and only if it has at least one member.
type Room struct {
	ID        RoomID
	Name      string
	Host      PlayerID
	Members   []PlayerID // join order; Host is always an element
	Password  string     // empty means open; compared verbatim, by protocol
	Status    RoomStatus
	CreatedAt time.Time
}

// HasPassword reports whether joining requires a password
func (r *Room) HasPassword() bool {
	return r.Password != ""
}

// IsFull reports whether the room has reached capacity
func (r *Room) IsFull() bool {
	return len(r.Members) >= MaxRoomPlayers
}

// MemberIndex returns the join-order position of the given player, or -1
func (r *Room) MemberIndex(id PlayerID) int {
	for i, m := range r.Members {
		if m == id {
			return i
		}
	}
	return -1
}

// RemoveMember removes the given player while preserving the relative join
// order of the remaining members. Host succession depends on this.
func (r *Room) RemoveMember(id PlayerID) bool {
	i := r.MemberIndex(id)
	if i < 0 {
		return false
	}
	r.Members = append(r.Members[:i], r.Members[i+1:]...)
	return true
}

// RoomSummary is the public view of a room. It never carries the password.
type RoomSummary struct {
	ID          RoomID     `json:"id"`
	Name        string     `json:"name"`
	Players     int        `json:"players"`
	MaxPlayers  int        `json:"maxPlayers"`
	HasPassword bool       `json:"hasPassword"`
	Status      RoomStatus `json:"status"`
}

// Summary returns the room's public view
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		Players:     len(r.Members),
		MaxPlayers:  MaxRoomPlayers,
		HasPassword: r.HasPassword(),
		Status:      r.Status,
	}
}
