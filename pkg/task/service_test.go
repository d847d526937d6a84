package task

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
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
	return NewService(repo, clock, time.UTC), repo, clock, context.Background()
}

func TestServiceImpl_Create_Defaults(t *testing.T) {
	service, _, clock, ctx := setup()

	created, err := service.Create(ctx, Task{Title: "Pay rent"})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)
	assert.Equal(t, "2024-03-15", created.TaskDate.Format(utils.DateLayout))
	assert.Equal(t, clock.Now(), created.CreatedAt)
	assert.Nil(t, created.CompletedAt)
}

func TestServiceImpl_Create_RejectsBadTime(t *testing.T) {
	service, _, _, ctx := setup()

	_, err := service.Create(ctx, Task{Title: "Call bank", TaskTime: "25:99"})

	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestServiceImpl_Create_ValidatesEnums(t *testing.T) {
	service, _, _, ctx := setup()

	urgent, err := service.Create(ctx, Task{Title: "File return", Priority: PriorityUrgent})
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, urgent.Priority)

	_, err = service.Create(ctx, Task{Title: "File return", Priority: "ASAP"})
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = service.Create(ctx, Task{Title: "File return", Status: "PARKED"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestServiceImpl_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	service, _, _, ctx := setup()
	created, err := service.Create(ctx, Task{Title: "Write report"})
	require.NoError(t, err)

	_, err = service.UpdateStatus(ctx, created.ID, "PARKED")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestServiceImpl_UpdateStatus_SetsAndClearsCompletedAt(t *testing.T) {
	service, _, clock, ctx := setup()
	created, err := service.Create(ctx, Task{Title: "Write report"})
	require.NoError(t, err)

	done, err := service.UpdateStatus(ctx, created.ID, StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, clock.Now(), *done.CompletedAt)

	reopened, err := service.UpdateStatus(ctx, created.ID, StatusPending)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestServiceImpl_UpdateStatus_KeepsCompletedAtWhenAlreadyDone(t *testing.T) {
	service, _, clock, ctx := setup()
	created, err := service.Create(ctx, Task{Title: "Write report"})
	require.NoError(t, err)

	first, err := service.UpdateStatus(ctx, created.ID, StatusCompleted)
	require.NoError(t, err)

	clock.SetNow(clock.Now().Add(2 * time.Hour))
	second, err := service.UpdateStatus(ctx, created.ID, StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, *first.CompletedAt, *second.CompletedAt)
}

func TestServiceImpl_Overdue(t *testing.T) {
	service, _, _, ctx := setup()
	yesterday, err := service.Create(ctx, Task{Title: "Yesterday", TaskDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = service.Create(ctx, Task{Title: "Earlier today", TaskDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), TaskTime: "09:00"})
	require.NoError(t, err)
	_, err = service.Create(ctx, Task{Title: "Tonight", TaskDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), TaskTime: "20:00"})
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, yesterday.ID, StatusInProgress)
	require.NoError(t, err)

	overdue, err := service.Overdue(ctx)

	require.NoError(t, err)
	require.Len(t, overdue, 2)
	assert.Equal(t, "Yesterday", overdue[0].Title)
	assert.Equal(t, "Earlier today", overdue[1].Title)
}

func TestServiceImpl_Upcoming_SkipsFinishedTasks(t *testing.T) {
	service, _, _, ctx := setup()
	_, err := service.Create(ctx, Task{Title: "Open", TaskDate: time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	done, err := service.Create(ctx, Task{Title: "Done", TaskDate: time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, done.ID, StatusCompleted)
	require.NoError(t, err)

	upcoming, err := service.Upcoming(ctx, 7)

	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Open", upcoming[0].Title)
}

func TestServiceImpl_CompletionReport(t *testing.T) {
	service, _, clock, ctx := setup()

	first, err := service.Create(ctx, Task{Title: "First", Priority: PriorityHigh})
	require.NoError(t, err)
	clock.SetNow(clock.Now().Add(2 * time.Hour))
	_, err = service.UpdateStatus(ctx, first.ID, StatusCompleted)
	require.NoError(t, err)

	second, err := service.Create(ctx, Task{Title: "Second", Priority: PriorityLow})
	require.NoError(t, err)
	clock.SetNow(clock.Now().Add(4 * time.Hour))
	_, err = service.UpdateStatus(ctx, second.ID, StatusCompleted)
	require.NoError(t, err)

	report, err := service.CompletionReport(ctx,
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalCompleted)
	assert.InDelta(t, 3.0, report.AvgCompletionHours, 0.01)
	require.Len(t, report.Days, 1)
	assert.Equal(t, 2, report.Days[0].Total)
	assert.Equal(t, 1, report.Days[0].ByPriority[PriorityHigh])
	assert.Equal(t, 1, report.Days[0].ByPriority[PriorityLow])
}

func TestServiceImpl_Summary(t *testing.T) {
	service, _, _, ctx := setup()
	_, err := service.Create(ctx, Task{Title: "A"})
	require.NoError(t, err)
	done, err := service.Create(ctx, Task{Title: "B"})
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, done.ID, StatusCompleted)
	require.NoError(t, err)

	summary, err := service.Summary(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 2, summary.Total)
}
