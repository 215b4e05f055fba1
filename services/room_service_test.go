package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"slam-scoring-system/models"
	"slam-scoring-system/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService_CreateAndDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()

	room, err := svc.CreateRoom(ctx, "  Spring Slam ")
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "Spring Slam", room.Name)
	assert.Nil(t, room.CurrentRoundID)

	testutil.CreateTestParticipant(t, db, room.ID, "Zed")
	testutil.CreateTestParticipant(t, db, room.ID, "Amy")
	testutil.CreateTestRound(t, db, room.ID, 2)
	testutil.CreateTestRound(t, db, room.ID, 1)

	detail, err := svc.GetRoomDetail(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, detail.Room.ID)
	require.Len(t, detail.Participants, 2)
	assert.Equal(t, "Amy", detail.Participants[0].Name)
	require.Len(t, detail.Rounds, 2)
	assert.Equal(t, 1, detail.Rounds[0].RoundNumber)
	assert.Equal(t, 2, detail.Rounds[1].RoundNumber)
}

func TestRoomService_CreateRoomRequiresName(t *testing.T) {
	svc := NewRoomService(testutil.SetupTestDB(t))

	_, err := svc.CreateRoom(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoomService_GetRoomDetailUnknown(t *testing.T) {
	svc := NewRoomService(testutil.SetupTestDB(t))

	_, err := svc.GetRoomDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoomService_ListRoomsNewestFirstCapped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoomService(db)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		testutil.CreateTestRoom(t, db, fmt.Sprintf("room-%02d", i), base.Add(time.Duration(i)*time.Minute))
	}

	rooms, err := svc.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, RecentRoomsLimit)
	assert.Equal(t, "room-11", rooms[0].Name)
	assert.Equal(t, "room-02", rooms[len(rooms)-1].Name)
	for i := 1; i < len(rooms); i++ {
		assert.False(t, rooms[i].CreatedAt.After(rooms[i-1].CreatedAt), "rooms out of order at %d", i)
	}
}

func TestRoomService_UpdateRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()
	room := testutil.CreateTestRoom(t, db, "Old", time.Now())

	t.Run("renames", func(t *testing.T) {
		n, err := svc.UpdateRoom(ctx, room.ID, models.RoomUpdate{Name: testutil.Ptr("New")})
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		got, err := svc.GetRoom(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Name)
	})

	t.Run("empty update changes nothing", func(t *testing.T) {
		n, err := svc.UpdateRoom(ctx, room.ID, models.RoomUpdate{})
		require.NoError(t, err)
		assert.EqualValues(t, 0, n)
	})

	t.Run("blank name rejected", func(t *testing.T) {
		_, err := svc.UpdateRoom(ctx, room.ID, models.RoomUpdate{Name: testutil.Ptr(" ")})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := svc.UpdateRoom(ctx, "missing", models.RoomUpdate{Name: testutil.Ptr("x")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRoomService_DeleteRoomRemovesParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoomService(db)
	participants := NewParticipantService(db)
	ctx := context.Background()

	room := testutil.CreateTestRoom(t, db, "Doomed", time.Now())
	other := testutil.CreateTestRoom(t, db, "Survivor", time.Now())
	a := testutil.CreateTestParticipant(t, db, room.ID, "A")
	testutil.CreateTestParticipant(t, db, room.ID, "B")
	kept := testutil.CreateTestParticipant(t, db, other.ID, "C")
	round, _ := testutil.CreateTestRound(t, db, room.ID, 1, a.ID)

	n, err := svc.DeleteRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = svc.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = participants.GetParticipant(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = participants.GetParticipant(ctx, kept.ID)
	assert.NoError(t, err)

	// round history is kept
	var rounds int64
	require.NoError(t, db.Model(&models.Round{}).Where("id = ?", round.ID).Count(&rounds).Error)
	assert.EqualValues(t, 1, rounds)

	_, err = svc.DeleteRoom(ctx, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoomService_GetCurrentRound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoomService(db)
	rounds := NewRoundService(db, nil, nil)
	ctx := context.Background()

	room := testutil.CreateTestRoom(t, db, "Room", time.Now())
	p := testutil.CreateTestParticipant(t, db, room.ID, "Poet")

	_, err := svc.GetCurrentRound(ctx, room.ID)
	assert.ErrorIs(t, err, ErrNoCurrentRound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetCurrentRound(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNoCurrentRound)

	round, err := rounds.AdvanceRoom(ctx, room.ID, []models.Participant{p})
	require.NoError(t, err)

	current, err := svc.GetCurrentRound(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, round.ID, current.Round.ID)
	require.Len(t, current.Participations, 1)
	require.NotNil(t, current.Participations[0].Participant)
	assert.Equal(t, "Poet", current.Participations[0].Participant.Name)
}

func TestRoomService_Standings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoomService(db)
	ctx := context.Background()

	room := testutil.CreateTestRoom(t, db, "Finals", time.Now())
	a := testutil.CreateTestParticipant(t, db, room.ID, "A")
	b := testutil.CreateTestParticipant(t, db, room.ID, "B")
	c := testutil.CreateTestParticipant(t, db, room.ID, "C")
	_, parts := testutil.CreateTestRound(t, db, room.ID, 1, a.ID, b.ID, c.ID)

	// A: 27 - 1.0 = 26, B: 26.5, C unscored
	require.NoError(t, db.Model(&parts[0]).Updates(map[string]any{"score": 27.0, "deduction": 1.0}).Error)
	require.NoError(t, db.Model(&parts[1]).Update("score", 26.5).Error)

	standings, err := svc.Standings(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, standings.Rounds, 1)

	entries := standings.Rounds[0].Entries
	require.Len(t, entries, 3)
	assert.Equal(t, "B", entries[0].ParticipantName)
	assert.InDelta(t, 26.5, *entries[0].Net, 1e-9)
	assert.Equal(t, "A", entries[1].ParticipantName)
	assert.InDelta(t, 26.0, *entries[1].Net, 1e-9)
	assert.Equal(t, "C", entries[2].ParticipantName)
	assert.Nil(t, entries[2].Net)
}
