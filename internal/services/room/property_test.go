package room

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dgrudge/lobby/internal/dependencies/mocks"
	"github.com/dgrudge/lobby/internal/model"
	"github.com/dgrudge/lobby/internal/storage/memory"
	"github.com/dgrudge/lobby/internal/testutil"
)

// TestRoomInvariantsUnderRandomOps drives the controller with random create,
// join, and leave sequences and checks the structural invariants after every
// step: membership never exceeds capacity, the host is always a member, a
// room exists exactly as long as it has members, and every player binding
// points at a room that contains that player.
func TestRoomInvariantsUnderRandomOps(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		store := memory.New()
		clk := mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
		controller := NewController(store, clk, testutil.NopLogger())

		playerIDs := make([]model.PlayerID, 12)
		for i := range playerIDs {
			playerIDs[i] = model.PlayerID(fmt.Sprintf("player-%d", i))
			require.NoError(t, store.SavePlayer(ctx, &model.Player{
				ID:          playerIDs[i],
				ConnectedAt: clk.Now(),
			}))
		}

		steps := rapid.IntRange(1, 60).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			player := rapid.SampledFrom(playerIDs).Draw(t, "player")
			clk.Advance(time.Second)

			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				_, err := controller.Create(ctx, player, "game", "")
				if err != nil {
					require.ErrorIs(t, err, model.ErrAlreadyInRoom)
				}
			case 1:
				rooms, err := store.ListRooms(ctx)
				require.NoError(t, err)
				if len(rooms) == 0 {
					continue
				}
				target := rapid.SampledFrom(rooms).Draw(t, "room")
				if _, err := controller.Join(ctx, player, target.ID, ""); err != nil {
					require.True(t,
						errors.Is(err, model.ErrAlreadyInRoom) || errors.Is(err, model.ErrRoomFull),
						"unexpected join error: %v", err)
				}
			case 2:
				_, err := controller.Leave(ctx, player)
				require.NoError(t, err)
			}

			checkRoomInvariants(t, ctx, store, playerIDs)
		}
	})
}

func checkRoomInvariants(t *rapid.T, ctx context.Context, store *memory.Storage, playerIDs []model.PlayerID) {
	rooms, err := store.ListRooms(ctx)
	require.NoError(t, err)

	membership := make(map[model.PlayerID]model.RoomID)
	for _, r := range rooms {
		require.NotEmpty(t, r.Members, "room %s exists with no members", r.ID)
		require.LessOrEqual(t, len(r.Members), model.MaxRoomPlayers)
		require.Equal(t, 0, r.MemberIndex(r.Host), "host %s of room %s is not its earliest member", r.Host, r.ID)

		seen := make(map[model.PlayerID]struct{}, len(r.Members))
		for _, m := range r.Members {
			_, dup := seen[m]
			require.False(t, dup, "player %s appears twice in room %s", m, r.ID)
			seen[m] = struct{}{}

			_, elsewhere := membership[m]
			require.False(t, elsewhere, "player %s is a member of two rooms", m)
			membership[m] = r.ID
		}
	}

	for _, id := range playerIDs {
		player, err := store.GetPlayer(ctx, id)
		require.NoError(t, err)
		require.Equal(t, membership[id], player.RoomID,
			"player %s binding disagrees with room membership", id)
	}
}
