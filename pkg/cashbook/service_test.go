package cashbook

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/utils"
)

func setup() (*ServiceImpl, *StubRepository, context.Context) {
	repo := NewStubRepository()
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	return NewService(repo, clock), repo, context.Background()
}

func TestServiceImpl_CreateGroup_RejectsDuplicateName(t *testing.T) {
	service, _, ctx := setup()

	_, err := service.CreateGroup(ctx, KindExpense, "Groceries")
	require.NoError(t, err)

	_, err = service.CreateGroup(ctx, KindExpense, "Groceries")
	assert.ErrorIs(t, err, ErrDuplicateGroup)
}

func TestServiceImpl_CreateGroup_SameNameAcrossKinds(t *testing.T) {
	service, _, ctx := setup()

	_, err := service.CreateGroup(ctx, KindExpense, "Misc")
	require.NoError(t, err)

	_, err = service.CreateGroup(ctx, KindIncome, "Misc")
	assert.NoError(t, err)
}

func TestServiceImpl_DeleteGroup_RefusesWhenInUse(t *testing.T) {
	service, _, ctx := setup()
	group, err := service.CreateGroup(ctx, KindExpense, "Groceries")
	require.NoError(t, err)
	_, err = service.CreateEntry(ctx, Entry{
		Kind:    KindExpense,
		Name:    "Vegetables",
		GroupID: group.ID,
		Amount:  decimal.RequireFromString("250.00"),
	})
	require.NoError(t, err)

	err = service.DeleteGroup(ctx, KindExpense, group.ID)
	assert.ErrorIs(t, err, ErrGroupInUse)
}

func TestServiceImpl_DeleteGroup_EmptyGroup(t *testing.T) {
	service, _, ctx := setup()
	group, err := service.CreateGroup(ctx, KindExpense, "Groceries")
	require.NoError(t, err)

	assert.NoError(t, service.DeleteGroup(ctx, KindExpense, group.ID))
}

func TestServiceImpl_CreateEntry_Validation(t *testing.T) {
	service, _, ctx := setup()
	group, err := service.CreateGroup(ctx, KindIncome, "Salary")
	require.NoError(t, err)

	t.Run("rejects zero amount", func(t *testing.T) {
		_, err := service.CreateEntry(ctx, Entry{
			Kind:    KindIncome,
			Name:    "March salary",
			GroupID: group.ID,
			Amount:  decimal.Zero,
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := service.CreateEntry(ctx, Entry{
			Kind:    KindIncome,
			Name:    "March salary",
			GroupID: group.ID,
			Amount:  decimal.RequireFromString("-10"),
		})
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects unknown group", func(t *testing.T) {
		_, err := service.CreateEntry(ctx, Entry{
			Kind:    KindIncome,
			Name:    "March salary",
			GroupID: 99,
			Amount:  decimal.RequireFromString("100"),
		})
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("defaults date to today", func(t *testing.T) {
		created, err := service.CreateEntry(ctx, Entry{
			Kind:    KindIncome,
			Name:    "March salary",
			GroupID: group.ID,
			Amount:  decimal.RequireFromString("50000"),
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-15", utils.FormatDate(created.Date))
	})
}

func TestServiceImpl_GroupReport(t *testing.T) {
	service, _, ctx := setup()
	groceries, _ := service.CreateGroup(ctx, KindExpense, "Groceries")
	transport, _ := service.CreateGroup(ctx, KindExpense, "Transport")
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, e := range []Entry{
		{Kind: KindExpense, Date: date, Name: "Vegetables", GroupID: groceries.ID, Amount: decimal.RequireFromString("300")},
		{Kind: KindExpense, Date: date, Name: "Fruit", GroupID: groceries.ID, Amount: decimal.RequireFromString("200")},
		{Kind: KindExpense, Date: date, Name: "Bus pass", GroupID: transport.ID, Amount: decimal.RequireFromString("500")},
	} {
		_, err := service.CreateEntry(ctx, e)
		require.NoError(t, err)
	}

	report, err := service.GroupReport(ctx, KindExpense,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.True(t, report.Total.Equal(decimal.RequireFromString("1000")))
	require.Len(t, report.Groups, 2)
	assert.Equal(t, "Groceries", report.Groups[0].GroupName)
	assert.True(t, report.Groups[0].Total.Equal(decimal.RequireFromString("500")))
	assert.Equal(t, 2, report.Groups[0].Count)
}

func TestServiceImpl_Summary(t *testing.T) {
	service, _, ctx := setup()
	salary, _ := service.CreateGroup(ctx, KindIncome, "Salary")
	groceries, _ := service.CreateGroup(ctx, KindExpense, "Groceries")
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := service.CreateEntry(ctx, Entry{Kind: KindIncome, Date: date, Name: "March", GroupID: salary.ID, Amount: decimal.RequireFromString("50000")})
	require.NoError(t, err)
	_, err = service.CreateEntry(ctx, Entry{Kind: KindExpense, Date: date, Name: "Food", GroupID: groceries.ID, Amount: decimal.RequireFromString("12000")})
	require.NoError(t, err)

	summary, err := service.Summary(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.True(t, summary.Net.Equal(decimal.RequireFromString("38000")))
}
