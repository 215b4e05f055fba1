package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"slam-scoring-system/models"
	"slam-scoring-system/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.LiveEvent
}

func (r *recordingPublisher) PublishEvent(evt models.LiveEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func TestRoundService_AdvanceRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	live := &recordingPublisher{}
	svc := NewRoundService(db, live, nil)
	rooms := NewRoomService(db)
	ctx := context.Background()

	room := testutil.CreateTestRoom(t, db, "Room", time.Now())
	a := testutil.CreateTestParticipant(t, db, room.ID, "A")
	b := testutil.CreateTestParticipant(t, db, room.ID, "B")
	c := testutil.CreateTestParticipant(t, db, room.ID, "C")

	first, err := svc.AdvanceRoom(ctx, room.ID, []models.Participant{c, a, b})
	require.NoError(t, err)
	assert.Equal(t, 1, first.RoundNumber)

	detail, err := svc.GetRoundDetail(ctx, first.ID)
	require.NoError(t, err)

	type slot struct {
		Participant string
		Order       int
	}
	var got []slot
	for _, p := range detail.Participations {
		got = append(got, slot{Participant: p.ParticipantID, Order: p.PerformanceOrder})
		assert.Nil(t, p.Score)
		assert.Nil(t, p.Deduction)
	}
	want := []slot{{c.ID, 0}, {a.ID, 1}, {b.ID, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("participations mismatch (-want +got):\n%s", diff)
	}

	stored, err := rooms.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentRoundID)
	assert.Equal(t, first.ID, *stored.CurrentRoundID)

	second, err := svc.AdvanceRoom(ctx, room.ID, []models.Participant{a})
	require.NoError(t, err)
	third, err := svc.AdvanceRoom(ctx, room.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.RoundNumber)
	assert.Equal(t, 3, third.RoundNumber)

	stored, err = rooms.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, third.ID, *stored.CurrentRoundID)

	empty, err := svc.GetRoundDetail(ctx, third.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.Participations)

	assert.Equal(t, []string{models.EventRoundAdvanced, models.EventRoundAdvanced, models.EventRoundAdvanced}, live.types())
}

func TestRoundService_AdvanceRoomNumbersFromHighestRound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoundService(db, nil, nil)
	room := testutil.CreateTestRoom(t, db, "Room", time.Now())

	// inserted out of order on purpose
	testutil.CreateTestRound(t, db, room.ID, 4)
	testutil.CreateTestRound(t, db, room.ID, 2)

	round, err := svc.AdvanceRoom(context.Background(), room.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, round.RoundNumber)
}

func TestRoundService_AdvanceRoomKeepsDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoundService(db, nil, nil)
	ctx := context.Background()
	room := testutil.CreateTestRoom(t, db, "Room", time.Now())
	a := testutil.CreateTestParticipant(t, db, room.ID, "A")

	round, err := svc.AdvanceRoom(ctx, room.ID, []models.Participant{a, a})
	require.NoError(t, err)

	detail, err := svc.GetRoundDetail(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, detail.Participations, 2)
	assert.Equal(t, 0, detail.Participations[0].PerformanceOrder)
	assert.Equal(t, 1, detail.Participations[1].PerformanceOrder)
}

func TestRoundService_AdvanceUnknownRoom(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoundService(db, nil, nil)

	_, err := svc.AdvanceRoom(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	var rounds int64
	require.NoError(t, db.Model(&models.Round{}).Count(&rounds).Error)
	assert.Zero(t, rounds)
}

func TestRoundService_ConcurrentAdvance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoundService(db, nil, nil)
	room := testutil.CreateTestRoom(t, db, "Room", time.Now())

	const advances = 6
	var wg sync.WaitGroup
	errs := make(chan error, advances)
	for i := 0; i < advances; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AdvanceRoom(context.Background(), room.ID, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var numbers []int
	require.NoError(t, db.Model(&models.Round{}).Where("room_id = ?", room.ID).Pluck("round_number", &numbers).Error)
	sort.Ints(numbers)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, numbers)
}

func TestRoundService_ResolveParticipants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewRoundService(db, nil, nil)
	ctx := context.Background()
	room := testutil.CreateTestRoom(t, db, "Room", time.Now())
	a := testutil.CreateTestParticipant(t, db, room.ID, "A")
	b := testutil.CreateTestParticipant(t, db, room.ID, "B")

	got, err := svc.ResolveParticipants(ctx, []string{b.ID, a.ID, b.ID})
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Participant{b, a, b}, got); diff != "" {
		t.Errorf("resolved participants mismatch (-want +got):\n%s", diff)
	}

	empty, err := svc.ResolveParticipants(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.ResolveParticipants(ctx, []string{a.ID, "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoundService_GetRoundDetailUnknown(t *testing.T) {
	svc := NewRoundService(testutil.SetupTestDB(t), nil, nil)

	_, err := svc.GetRoundDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
