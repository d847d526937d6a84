package goal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/subprocess"
)

type stubSubProcessProvider struct {
	items     map[int][]subprocess.SubProcess
	completed []int
}

func (s *stubSubProcessProvider) ListForGoal(_ context.Context, goalID int) ([]subprocess.SubProcess, error) {
	return s.items[goalID], nil
}

func (s *stubSubProcessProvider) CompleteAllForGoal(_ context.Context, goalID int) error {
	s.completed = append(s.completed, goalID)
	return nil
}

func setup() (*ServiceImpl, *StubRepository, *stubSubProcessProvider, context.Context) {
	repo := NewStubRepository()
	provider := &stubSubProcessProvider{items: make(map[int][]subprocess.SubProcess)}
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewService(repo, provider, clock), repo, provider, context.Background()
}

func TestServiceImpl_Create_DefaultsToUnfocused(t *testing.T) {
	service, _, _, ctx := setup()

	created, err := service.Create(ctx, Goal{Name: "Learn guitar"})

	require.NoError(t, err)
	assert.Equal(t, StatusUnfocused, created.Status)
}

func TestServiceImpl_UpdateSortOrder_ShiftsOthers(t *testing.T) {
	service, repo, _, ctx := setup()
	first, _ := repo.Store(ctx, Goal{Name: "First", SortOrder: 1})
	second, _ := repo.Store(ctx, Goal{Name: "Second", SortOrder: 2})
	mover, _ := repo.Store(ctx, Goal{Name: "Mover", SortOrder: 3})

	moved, err := service.UpdateSortOrder(ctx, mover.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, moved.SortOrder)
	g, _ := repo.Get(ctx, first.ID)
	assert.Equal(t, 2, g.SortOrder)
	g, _ = repo.Get(ctx, second.ID)
	assert.Equal(t, 3, g.SortOrder)
}

func TestServiceImpl_UpdateOrders_SetsEachDirectly(t *testing.T) {
	service, repo, _, ctx := setup()
	first, _ := repo.Store(ctx, Goal{Name: "First", SortOrder: 1})
	second, _ := repo.Store(ctx, Goal{Name: "Second", SortOrder: 2})
	third, _ := repo.Store(ctx, Goal{Name: "Third", SortOrder: 3})

	err := service.UpdateOrders(ctx, []OrderUpdate{
		{ID: first.ID, SortOrder: 3},
		{ID: third.ID, SortOrder: 1},
	})

	require.NoError(t, err)
	g, _ := repo.Get(ctx, first.ID)
	assert.Equal(t, 3, g.SortOrder)
	g, _ = repo.Get(ctx, second.ID)
	assert.Equal(t, 2, g.SortOrder)
	g, _ = repo.Get(ctx, third.ID)
	assert.Equal(t, 1, g.SortOrder)
}

func TestServiceImpl_UpdateOrders_IgnoresUnknownAndMissingIDs(t *testing.T) {
	service, repo, _, ctx := setup()
	g, _ := repo.Store(ctx, Goal{Name: "Only", SortOrder: 1})

	err := service.UpdateOrders(ctx, []OrderUpdate{
		{ID: 99, SortOrder: 5},
		{SortOrder: 7},
		{ID: g.ID, SortOrder: 2},
	})

	require.NoError(t, err)
	got, _ := repo.Get(ctx, g.ID)
	assert.Equal(t, 2, got.SortOrder)
}

func TestServiceImpl_Statistics(t *testing.T) {
	service, repo, provider, ctx := setup()
	g, _ := repo.Store(ctx, Goal{Name: "Ship app", Status: StatusFocus})
	provider.items[g.ID] = []subprocess.SubProcess{
		{ID: 1, GoalID: g.ID, EstimatedDays: decimal.NewFromInt(3), Status: subprocess.StatusDone},
		{ID: 2, GoalID: g.ID, EstimatedDays: decimal.NewFromInt(1), Status: subprocess.StatusPending, Focus: true},
		{ID: 3, GoalID: g.ID, EstimatedDays: decimal.NewFromInt(2), Status: subprocess.StatusPending},
	}

	stats, err := service.Statistics(ctx, g.ID)

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalSubProcesses)
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 1, stats.FocusedCount)
	assert.True(t, stats.TotalEstimatedDays.Equal(decimal.NewFromInt(6)))
	assert.True(t, stats.CompletedDays.Equal(decimal.NewFromInt(3)))
	assert.True(t, stats.RemainingDays.Equal(decimal.NewFromInt(3)))
	assert.InDelta(t, 50.0, stats.TimeProgressPercent, 0.01)
	assert.InDelta(t, 33.3, stats.CountProgressPercent, 0.01)
}

func TestServiceImpl_Statistics_NoSubProcesses(t *testing.T) {
	service, repo, _, ctx := setup()
	g, _ := repo.Store(ctx, Goal{Name: "Empty"})

	stats, err := service.Statistics(ctx, g.ID)

	require.NoError(t, err)
	assert.Zero(t, stats.TimeProgressPercent)
	assert.Zero(t, stats.CountProgressPercent)
}

func TestServiceImpl_MarkCompleted(t *testing.T) {
	service, repo, provider, ctx := setup()
	g, _ := repo.Store(ctx, Goal{Name: "Ship app", Status: StatusFocus})

	done, err := service.MarkCompleted(ctx, g.ID)

	require.NoError(t, err)
	assert.Equal(t, StatusDone, done.Status)
	assert.Equal(t, []int{g.ID}, provider.completed)
}
