package timeentry

import (
	"context"
	"testing"
	"time"

	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/activity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubActivityProvider struct {
	activities map[int]activity.Activity
}

func (s *stubActivityProvider) Get(ctx context.Context, id int) (activity.Activity, error) {
	act, ok := s.activities[id]
	if !ok {
		return activity.Activity{}, activity.ErrNotFound
	}
	return act, nil
}

func setup() (*ServiceImpl, *StubRepository, *utils.MockClock, context.Context) {
	repo := NewStubRepository()
	activities := &stubActivityProvider{activities: map[int]activity.Activity{
		1: {ID: 1, Name: "Coding"},
		2: {ID: 2, Name: "Reading"},
	}}
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)}
	service := NewService(repo, activities, clock)
	return service, repo, clock, context.Background()
}

func TestServiceImpl_Start(t *testing.T) {
	service, _, clock, ctx := setup()

	entry, err := service.Start(ctx, 1, "morning session")
	require.NoError(t, err)

	assert.Equal(t, 1, entry.ActivityID)
	assert.Equal(t, clock.Now(), entry.StartTime)
	assert.Nil(t, entry.EndTime)
	assert.NotEmpty(t, entry.SyncToken)
}

func TestServiceImpl_Start_UnknownActivity(t *testing.T) {
	service, _, _, ctx := setup()

	_, err := service.Start(ctx, 99, "")
	assert.ErrorIs(t, err, activity.ErrNotFound)
}

func TestServiceImpl_Start_ClosesRunningEntry(t *testing.T) {
	service, _, clock, ctx := setup()

	first, err := service.Start(ctx, 1, "")
	require.NoError(t, err)

	clock.SetNow(clock.Now().Add(30 * time.Minute))
	_, err = service.Start(ctx, 2, "")
	require.NoError(t, err)

	stopped, err := service.Get(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, stopped.EndTime)
	assert.Equal(t, clock.Now(), *stopped.EndTime)
	assert.Equal(t, 30, stopped.DurationMinutes)

	active, err := service.Active(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, 2, active.ActivityID)
}

func TestServiceImpl_Stop(t *testing.T) {
	service, _, clock, ctx := setup()

	entry, err := service.Start(ctx, 1, "")
	require.NoError(t, err)

	clock.SetNow(clock.Now().Add(95 * time.Second))
	stopped, err := service.Stop(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stopped.DurationMinutes)

	// a second stop conflicts
	_, err = service.Stop(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrAlreadyStopped)
}

func TestServiceImpl_Create_Validation(t *testing.T) {
	service, _, clock, ctx := setup()
	now := clock.Now()

	closed := func(activityID int, start, end time.Time) TimeEntry {
		return TimeEntry{ActivityID: activityID, StartTime: start, EndTime: &end}
	}

	// seed: Coding 09:00-10:00
	nineAM := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	_, err := service.Create(ctx, closed(1, nineAM, nineAM.Add(time.Hour)))
	require.NoError(t, err)

	t.Run("contained interval overlaps", func(t *testing.T) {
		_, err := service.Create(ctx, closed(1, nineAM.Add(30*time.Minute), nineAM.Add(45*time.Minute)))
		assert.ErrorIs(t, err, ErrOverlap)
	})

	t.Run("same interval on another activity is fine", func(t *testing.T) {
		_, err := service.Create(ctx, closed(2, nineAM.Add(30*time.Minute), nineAM.Add(45*time.Minute)))
		assert.NoError(t, err)
	})

	t.Run("adjacent interval does not overlap", func(t *testing.T) {
		entry, err := service.Create(ctx, closed(1, nineAM.Add(time.Hour), nineAM.Add(2*time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, 60, entry.DurationMinutes)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := service.Create(ctx, closed(1, nineAM, nineAM.Add(-time.Hour)))
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := service.Create(ctx, closed(1, nineAM, nineAM))
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})

	t.Run("future start", func(t *testing.T) {
		_, err := service.Create(ctx, closed(1, now.Add(time.Hour), now.Add(2*time.Hour)))
		assert.ErrorIs(t, err, ErrFutureTime)
	})

	t.Run("future end", func(t *testing.T) {
		_, err := service.Create(ctx, closed(1, now.Add(-time.Minute), now.Add(time.Hour)))
		assert.ErrorIs(t, err, ErrFutureTime)
	})
}

func TestServiceImpl_SyncState(t *testing.T) {
	service, _, clock, ctx := setup()

	start := clock.Now().Add(-3 * time.Hour)
	end := start.Add(time.Hour)
	_, err := service.Create(ctx, TimeEntry{ActivityID: 1, StartTime: start, EndTime: &end})
	require.NoError(t, err)

	running, err := service.Start(ctx, 2, "")
	require.NoError(t, err)

	state, err := service.SyncState(ctx)
	require.NoError(t, err)
	require.NotNil(t, state.ActiveEntry)
	assert.Equal(t, running.ID, state.ActiveEntry.ID)
	assert.Len(t, state.RecentEntries, 1)
}
