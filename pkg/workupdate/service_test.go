package workupdate

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
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	return NewService(repo, clock), repo, clock, context.Background()
}

func TestCreateDefaultsDateToNow(t *testing.T) {
	service, _, clock, ctx := setup()

	created, err := service.Create(ctx, WorkUpdate{Description: "Filed the quarterly return"})
	require.NoError(t, err)

	assert.Equal(t, clock.FixedNow, created.Date)
	assert.Equal(t, clock.FixedNow, created.CreatedAt)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	service, _, clock, ctx := setup()
	created, err := service.Create(ctx, WorkUpdate{Description: "Drafted contract"})
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)
	updated, err := service.Update(ctx, WorkUpdate{ID: created.ID, Date: created.Date, Description: "Drafted and sent contract"})
	require.NoError(t, err)

	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock.FixedNow, updated.UpdatedAt)
	assert.Equal(t, "Drafted and sent contract", updated.Description)
}

func TestRecentReturnsLastSevenDays(t *testing.T) {
	service, _, clock, ctx := setup()
	for _, daysAgo := range []int{0, 3, 6, 7, 20} {
		_, err := service.Create(ctx, WorkUpdate{
			Date:        clock.FixedNow.AddDate(0, 0, -daysAgo),
			Description: "update",
		})
		require.NoError(t, err)
	}

	recent, err := service.Recent(ctx)
	require.NoError(t, err)

	assert.Len(t, recent, 3)
}

func TestSearchMatchesHeadName(t *testing.T) {
	service, _, clock, ctx := setup()
	headID := 4
	_, err := service.Create(ctx, WorkUpdate{
		Date: clock.FixedNow, HeadID: &headID, HeadName: "GST Filings", Description: "March return",
	})
	require.NoError(t, err)
	_, err = service.Create(ctx, WorkUpdate{Date: clock.FixedNow, Description: "Office rent paid"})
	require.NoError(t, err)

	results, err := service.Search(ctx, "gst")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "March return", results[0].Description)
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	service, _, _, ctx := setup()

	_, err := service.Update(ctx, WorkUpdate{ID: 99, Description: "ghost"})

	assert.ErrorIs(t, err, ErrNotFound)
}
