package subprocess

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/utils"
)

func setup() (*ServiceImpl, *StubRepository, *utils.MockClock, context.Context) {
	repo := NewStubRepository()
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewService(repo, clock), repo, clock, context.Background()
}

func seed(t *testing.T, repo *StubRepository, goalID int, name string, order int) SubProcess {
	t.Helper()
	sp, err := repo.Store(context.Background(), SubProcess{
		GoalID:        goalID,
		Name:          name,
		EstimatedDays: decimal.NewFromInt(2),
		Status:        StatusPending,
		SortOrder:     order,
	})
	require.NoError(t, err)
	return sp
}

func TestServiceImpl_Create(t *testing.T) {
	service, _, _, ctx := setup()

	created, err := service.Create(ctx, SubProcess{
		GoalID:        1,
		Name:          "Write outline",
		EstimatedDays: decimal.RequireFromString("1.5"),
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.False(t, created.Focus)
	assert.Nil(t, created.CompletedAt)
}

func TestServiceImpl_Create_RejectsTinyEstimate(t *testing.T) {
	service, _, _, ctx := setup()

	_, err := service.Create(ctx, SubProcess{
		GoalID:        1,
		Name:          "Too small",
		EstimatedDays: decimal.RequireFromString("0.05"),
	})

	assert.ErrorIs(t, err, ErrInvalidEstimate)
}

func TestServiceImpl_Create_ShiftsSiblings(t *testing.T) {
	service, repo, _, ctx := setup()
	first := seed(t, repo, 1, "First", 1)
	second := seed(t, repo, 1, "Second", 2)

	created, err := service.Create(ctx, SubProcess{
		GoalID:        1,
		Name:          "Inserted",
		EstimatedDays: decimal.NewFromInt(1),
		SortOrder:     1,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, created.SortOrder)
	shifted, _ := repo.Get(ctx, first.ID)
	assert.Equal(t, 2, shifted.SortOrder)
	shifted, _ = repo.Get(ctx, second.ID)
	assert.Equal(t, 3, shifted.SortOrder)
}

func TestServiceImpl_ToggleStatus(t *testing.T) {
	service, repo, clock, ctx := setup()
	sp := seed(t, repo, 1, "Task", 1)

	done, err := service.ToggleStatus(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, clock.Now(), *done.CompletedAt)

	reopened, err := service.ToggleStatus(ctx, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
}

func TestServiceImpl_ToggleFocus(t *testing.T) {
	service, repo, _, ctx := setup()
	sp := seed(t, repo, 1, "Task", 1)

	focused, err := service.ToggleFocus(ctx, sp.ID)
	require.NoError(t, err)
	assert.True(t, focused.Focus)

	unfocused, err := service.ToggleFocus(ctx, sp.ID)
	require.NoError(t, err)
	assert.False(t, unfocused.Focus)
}

func TestServiceImpl_UpdateSortOrder_ShiftsWithinGoalOnly(t *testing.T) {
	service, repo, _, ctx := setup()
	mover := seed(t, repo, 1, "Mover", 3)
	sibling := seed(t, repo, 1, "Sibling", 1)
	other := seed(t, repo, 2, "Other goal", 1)

	moved, err := service.UpdateSortOrder(ctx, mover.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, moved.SortOrder)
	shifted, _ := repo.Get(ctx, sibling.ID)
	assert.Equal(t, 2, shifted.SortOrder)
	untouched, _ := repo.Get(ctx, other.ID)
	assert.Equal(t, 1, untouched.SortOrder)
}

func TestServiceImpl_Complete_Idempotent(t *testing.T) {
	service, repo, _, ctx := setup()
	sp := seed(t, repo, 1, "Task", 1)

	first, err := service.Complete(ctx, sp.ID)
	require.NoError(t, err)
	second, err := service.Complete(ctx, sp.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusDone, second.Status)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
}
