package habit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/utils"
)

func setup() (*ServiceImpl, *StubRepository, *utils.MockClock, context.Context) {
	repo := NewStubRepository()
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)}
	return NewService(repo, clock, time.UTC), repo, clock, context.Background()
}

func TestServiceImpl_Create_DefaultsToDaily(t *testing.T) {
	service, _, _, ctx := setup()

	created, err := service.Create(ctx, Habit{Name: "Meditate"})

	require.NoError(t, err)
	assert.Equal(t, FrequencyDaily, created.Frequency)
}

func TestServiceImpl_Create_RejectsUnknownFrequency(t *testing.T) {
	service, _, _, ctx := setup()

	_, err := service.Create(ctx, Habit{Name: "Meditate", Frequency: "fortnightly"})

	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestServiceImpl_LogCompletion_RejectsDuplicate(t *testing.T) {
	service, _, _, ctx := setup()
	habit, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err = service.LogCompletion(ctx, habit.ID, date, "morning")
	require.NoError(t, err)

	_, err = service.LogCompletion(ctx, habit.ID, date, "again")
	assert.ErrorIs(t, err, ErrAlreadyLogged)
}

func TestServiceImpl_LogCompletion_UnknownHabit(t *testing.T) {
	service, _, _, ctx := setup()

	_, err := service.LogCompletion(ctx, 99, time.Time{}, "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceImpl_Toggle(t *testing.T) {
	service, _, _, ctx := setup()
	habit, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	completed, err := service.Toggle(ctx, habit.ID, date)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = service.Toggle(ctx, habit.ID, date)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestServiceImpl_Stats(t *testing.T) {
	service, _, _, ctx := setup()
	habit, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	for _, d := range []string{"2024-03-15", "2024-03-14", "2024-03-13"} {
		date, _ := time.Parse(utils.DateLayout, d)
		_, err := service.LogCompletion(ctx, habit.ID, date, "")
		require.NoError(t, err)
	}

	stats, err := service.Stats(ctx, habit.ID)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.TotalCompletions)
	assert.InDelta(t, 42.9, stats.WeekRate, 0.01)
	assert.InDelta(t, 10.0, stats.MonthRate, 0.01)
}

func TestServiceImpl_Register(t *testing.T) {
	service, _, _, ctx := setup()
	meditate, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	_, err = service.Create(ctx, Habit{Name: "Run"})
	require.NoError(t, err)
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = service.LogCompletion(ctx, meditate.ID, date, "")
	require.NoError(t, err)

	rows, err := service.Register(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-03-10"}, rows[0].CompletedDays)
	assert.Empty(t, rows[1].CompletedDays)
}

func TestServiceImpl_OverallStats(t *testing.T) {
	service, _, _, ctx := setup()
	meditate, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	run, err := service.Create(ctx, Habit{Name: "Run"})
	require.NoError(t, err)
	for _, d := range []string{"2024-03-15", "2024-03-14", "2024-03-13"} {
		date, _ := time.Parse(utils.DateLayout, d)
		_, err := service.LogCompletion(ctx, meditate.ID, date, "")
		require.NoError(t, err)
	}
	// outside the trailing 30-day window
	_, err = service.LogCompletion(ctx, run.ID, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	stats, err := service.OverallStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalHabits)
	assert.Equal(t, 1, stats.ActiveHabits)
	assert.InDelta(t, 5.0, stats.CompletionRate, 0.01)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, "Meditate", stats.MostConsistentHabit)
}

func TestServiceImpl_OverallTrends(t *testing.T) {
	service, _, _, ctx := setup()
	meditate, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	run, err := service.Create(ctx, Habit{Name: "Run"})
	require.NoError(t, err)
	for _, d := range []string{"2024-03-15", "2024-03-14", "2024-03-13"} {
		date, _ := time.Parse(utils.DateLayout, d)
		_, err := service.LogCompletion(ctx, meditate.ID, date, "")
		require.NoError(t, err)
	}
	_, err = service.LogCompletion(ctx, run.ID, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	summary, err := service.OverallTrends(ctx, 30)

	require.NoError(t, err)
	require.Len(t, summary.Trends, 2)
	assert.Equal(t, "Meditate", summary.Trends[0].Habit.Name)
	assert.Equal(t, 3, summary.Trends[0].CompletionCount)
	assert.InDelta(t, 10.0, summary.Trends[0].Rate, 0.01)
	assert.Equal(t, "Run", summary.Trends[1].Habit.Name)
	assert.Equal(t, 4, summary.TotalCompletions)
	assert.InDelta(t, 1.0, summary.DailyAverage, 0.01)
}

func TestServiceImpl_Logs_FiltersByHabit(t *testing.T) {
	service, _, _, ctx := setup()
	meditate, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	run, err := service.Create(ctx, Habit{Name: "Run"})
	require.NoError(t, err)
	_, err = service.LogCompletion(ctx, meditate.ID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	_, err = service.LogCompletion(ctx, run.ID, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	all, err := service.Logs(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := service.Logs(ctx, &meditate.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, meditate.ID, mine[0].HabitID)
}

func TestServiceImpl_UpdateLog_MovesDate(t *testing.T) {
	service, _, _, ctx := setup()
	habit, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	logged, err := service.LogCompletion(ctx, habit.ID, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), "evening")
	require.NoError(t, err)

	updated, err := service.UpdateLog(ctx, Log{
		ID:      logged.ID,
		LogDate: time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		Notes:   "moved",
	})

	require.NoError(t, err)
	assert.Equal(t, habit.ID, updated.HabitID)
	assert.Equal(t, "2024-03-12", utils.FormatDate(updated.LogDate))
	assert.Equal(t, "moved", updated.Notes)
}

func TestServiceImpl_UpdateLog_RejectsDuplicateDate(t *testing.T) {
	service, _, _, ctx := setup()
	habit, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	_, err = service.LogCompletion(ctx, habit.ID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)
	second, err := service.LogCompletion(ctx, habit.ID, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	_, err = service.UpdateLog(ctx, Log{
		ID:      second.ID,
		LogDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, ErrAlreadyLogged)
}

func TestServiceImpl_DeleteLogByID(t *testing.T) {
	service, _, _, ctx := setup()
	habit, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	logged, err := service.LogCompletion(ctx, habit.ID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "")
	require.NoError(t, err)

	require.NoError(t, service.DeleteLogByID(ctx, logged.ID))

	_, err = service.GetLog(ctx, logged.ID)
	assert.ErrorIs(t, err, ErrLogNotFound)

	err = service.DeleteLogByID(ctx, 99)
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestServiceImpl_CompletedOn(t *testing.T) {
	service, _, _, ctx := setup()
	habit, err := service.Create(ctx, Habit{Name: "Meditate"})
	require.NoError(t, err)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	_, err = service.LogCompletion(ctx, habit.ID, date, "")
	require.NoError(t, err)

	completed, err := service.CompletedOn(ctx, date)

	require.NoError(t, err)
	assert.True(t, completed[habit.ID])
}
