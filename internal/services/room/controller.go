package room

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dgrudge/lobby/internal/dependencies/clock"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/storage"
)

// Controller manages the room directory: creation, membership, host
// succession, and teardown. Callers are responsible for serializing
// mutations (the message router holds the single dispatch lock).
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new room controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "rooms")),
	}
}

// Create makes a new room with the given player as host and sole member.
// A player who already has a room binding cannot create another room.
func (c *Controller) Create(ctx context.Context, hostID model.PlayerID, name, password string) (*model.Room, error) {
	host, err := c.storage.GetPlayer(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if host.InRoom() {
		return nil, model.ErrAlreadyInRoom
	}

	room := &model.Room{
		ID:        model.RoomID(uuid.NewString()),
		Name:      name,
		Host:      hostID,
		Members:   []model.PlayerID{hostID},
		Password:  password,
		Status:    model.RoomStatusWaiting,
		CreatedAt: c.clock.Now(),
	}
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	host.RoomID = room.ID
	if err := c.storage.SavePlayer(ctx, host); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("name", name),
		slog.String("host", string(hostID)),
		slog.Bool("password", room.HasPassword()))
	return room, nil
}

// Join appends the player to the room's member list, preserving join order.
// The password is compared verbatim; an empty room password means open.
func (c *Controller) Join(ctx context.Context, playerID model.PlayerID, roomID model.RoomID, password string) (*model.Room, error) {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if player.InRoom() {
		return nil, model.ErrAlreadyInRoom
	}
	if room.HasPassword() && room.Password != password {
		return nil, model.ErrWrongPassword
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	room.Members = append(room.Members, playerID)
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	player.RoomID = room.ID
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	c.logger.Info("player joined room",
		slog.String("room_id", string(room.ID)),
		slog.String("player_id", string(playerID)),
		slog.Int("members", len(room.Members)))
	return room, nil
}

// LeaveOutcome identifies which of the three mutually exclusive departure
// outcomes fired
type LeaveOutcome int

const (
	// LeaveNone means the player had no room binding; nothing happened
	LeaveNone LeaveOutcome = iota
	// LeaveRoomClosed means the room emptied and was deleted
	LeaveRoomClosed
	// LeaveHostChanged means the departing host was succeeded
	LeaveHostChanged
	// LeavePlayerLeft means a non-host member departed
	LeavePlayerLeft
)

// LeaveResult describes the effect of a departure
type LeaveResult struct {
	Outcome   LeaveOutcome
	RoomID    model.RoomID
	NewHost   model.PlayerID   // set when Outcome is LeaveHostChanged
	Remaining []model.PlayerID // members after removal, in join order
}

// Leave removes the player from its room, if any. Exactly one of the three
// outcomes fires: room teardown when membership empties, host succession to
// the earliest-joined remaining member when the host departs, or a plain
// member departure.
func (c *Controller) Leave(ctx context.Context, playerID model.PlayerID) (LeaveResult, error) {
	player, err := c.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return LeaveResult{Outcome: LeaveNone}, nil
	}
	if !player.InRoom() {
		return LeaveResult{Outcome: LeaveNone}, nil
	}

	roomID := player.RoomID
	player.RoomID = ""
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return LeaveResult{}, err
	}

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		// Room already gone; clearing the stale binding is enough.
		return LeaveResult{Outcome: LeaveNone}, nil
	}

	room.RemoveMember(playerID)

	if len(room.Members) == 0 {
		if err := c.storage.DeleteRoom(ctx, roomID); err != nil {
			return LeaveResult{}, err
		}
		c.logger.Info("room closed", slog.String("room_id", string(roomID)))
		return LeaveResult{Outcome: LeaveRoomClosed, RoomID: roomID}, nil
	}

	if room.Host == playerID {
		room.Host = room.Members[0]
		if err := c.storage.SaveRoom(ctx, room); err != nil {
			return LeaveResult{}, err
		}
		c.logger.Info("host migrated",
			slog.String("room_id", string(roomID)),
			slog.String("new_host", string(room.Host)))
		return LeaveResult{
			Outcome:   LeaveHostChanged,
			RoomID:    roomID,
			NewHost:   room.Host,
			Remaining: append([]model.PlayerID(nil), room.Members...),
		}, nil
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return LeaveResult{}, err
	}
	return LeaveResult{
		Outcome:   LeavePlayerLeft,
		RoomID:    roomID,
		Remaining: append([]model.PlayerID(nil), room.Members...),
	}, nil
}

// Get returns the room with the given id
func (c *Controller) Get(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// PublicInfo returns the public view of a room
func (c *Controller) PublicInfo(ctx context.Context, id model.RoomID) (model.RoomSummary, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return model.RoomSummary{}, err
	}
	return room.Summary(), nil
}

// List returns public views of all rooms in creation order
func (c *Controller) List(ctx context.Context) ([]model.RoomSummary, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.RoomSummary, len(rooms))
	for i, r := range rooms {
		summaries[i] = r.Summary()
	}
	return summaries, nil
}

// Count returns the number of rooms
func (c *Controller) Count(ctx context.Context) (int, error) {
	return c.storage.CountRooms(ctx)
}
