package habit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/test_utils"
)

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl) {
	db := test_utils.SetupTestDB(t)
	return context.Background(), NewRepository(db)
}

func TestRepositoryImpl_StoreAndGet(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)

	// when
	stored, err := repo.Store(ctx, Habit{
		Name:             "Meditate",
		Description:      "10 minutes",
		Frequency:        FrequencyDaily,
		ReminderTime:     "06:30",
		IsReminderActive: true,
		CreatedAt:        time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// then
	fetched, err := repo.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "Meditate", fetched.Name)
	assert.Equal(t, FrequencyDaily, fetched.Frequency)
	assert.Equal(t, "06:30", fetched.ReminderTime)
	assert.True(t, fetched.IsReminderActive)
}

func TestRepositoryImpl_StoreLog_RejectsDuplicateDate(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	h, err := repo.Store(ctx, Habit{Name: "Read", Frequency: FrequencyDaily, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err = repo.StoreLog(ctx, Log{HabitID: h.ID, LogDate: day, CompletedAt: time.Now().UTC()})
	require.NoError(t, err)

	// when
	_, err = repo.StoreLog(ctx, Log{HabitID: h.ID, LogDate: day, CompletedAt: time.Now().UTC()})

	// then: UNIQUE (habit_id, log_date)
	assert.Error(t, err)
}

func TestRepositoryImpl_DeleteCascadesLogs(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	h, err := repo.Store(ctx, Habit{Name: "Run", Frequency: FrequencyWeekly, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = repo.StoreLog(ctx, Log{
		HabitID:     h.ID,
		LogDate:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		CompletedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	// when
	err = repo.Delete(ctx, h.ID)
	require.NoError(t, err)

	// then
	logs, err := repo.LogsForHabit(ctx, h.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRepositoryImpl_LogsBetween(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	h, err := repo.Store(ctx, Habit{Name: "Journal", Frequency: FrequencyDaily, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	for _, day := range []int{5, 10, 15} {
		_, err = repo.StoreLog(ctx, Log{
			HabitID:     h.ID,
			LogDate:     time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
			CompletedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	// when
	logs, err := repo.LogsBetween(ctx, h.ID,
		time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))

	// then
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 10, logs[0].LogDate.Day())
}

func TestRepositoryImpl_ListWithActiveReminder(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	_, err := repo.Store(ctx, Habit{Name: "Silent", Frequency: FrequencyDaily, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = repo.Store(ctx, Habit{
		Name: "Loud", Frequency: FrequencyDaily, ReminderTime: "07:00",
		IsReminderActive: true, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	// when
	habits, err := repo.ListWithActiveReminder(ctx)

	// then
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "Loud", habits[0].Name)
}
