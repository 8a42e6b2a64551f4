package storage

import (
	"context"

	"github.com/dgrudge/lobby/internal/model"
)

// Storage defines the interface for lobby session state. All of it is
// transient: players live as long as their connections, rooms as long as
// they have members, and the ban list as long as the process.
//
// Records cross this boundary by value: what a get or list returns must not
// alias stored state, and a save must not alias the caller's struct. The
// router mutates under its own lock while HTTP handlers read concurrently,
// so shared pointers here would race.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	// ListPlayers returns players in connect order
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	CountPlayers(ctx context.Context) (int, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	// ListRooms returns rooms in creation order
	ListRooms(ctx context.Context) ([]*model.Room, error)
	CountRooms(ctx context.Context) (int, error)

	// Ban list operations. The ban list is append-only for the process
	// lifetime; there is no unban.
	AddBannedAddr(ctx context.Context, addr string) error
	IsBannedAddr(ctx context.Context, addr string) (bool, error)
	CountBannedAddrs(ctx context.Context) (int, error)
}
