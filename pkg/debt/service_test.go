package debt

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/utils"
)

func setup(t *testing.T) (Service, *StubRepository, *utils.MockClock, context.Context) {
	repo := NewStubRepository()
	t.Cleanup(repo.Cleanup)
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	return NewService(repo, clock, time.UTC), repo, clock, context.Background()
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newDebtWithSchedules(t *testing.T, service Service, ctx context.Context, amounts ...string) (Debt, []Schedule) {
	t.Helper()
	d, err := service.Create(ctx, Debt{Name: "Car loan", Type: TypeMultipleTenure})
	require.NoError(t, err)

	schedules := make([]Schedule, 0, len(amounts))
	for i, amount := range amounts {
		s, err := service.CreateSchedule(ctx, Schedule{
			DebtID:         d.ID,
			ExpectedDate:   time.Date(2024, time.Month(4+i), 1, 0, 0, 0, 0, time.UTC),
			ExpectedAmount: money(amount),
		})
		require.NoError(t, err)
		schedules = append(schedules, s)
	}
	return d, schedules
}

func TestCreateDebtDefaults(t *testing.T) {
	service, _, _, ctx := setup(t)

	d, err := service.Create(ctx, Debt{Name: "Laptop", Type: TypeOneTime})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, d.Status)

	_, err = service.Create(ctx, Debt{Name: "Bad", Type: "Revolving"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestCreateScheduleNumbering(t *testing.T) {
	service, _, _, ctx := setup(t)

	_, schedules := newDebtWithSchedules(t, service, ctx, "100", "100", "100")
	assert.Equal(t, 1, schedules[0].SNo)
	assert.Equal(t, 2, schedules[1].SNo)
	assert.Equal(t, 3, schedules[2].SNo)
	assert.Equal(t, StatusPending, schedules[0].Status)
	assert.True(t, schedules[0].PaidAmount.IsZero())
}

func TestApplyPaymentPartial(t *testing.T) {
	service, repo, _, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "500", "500")

	_, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("200")})
	require.NoError(t, err)

	sched, err := repo.GetSchedule(ctx, schedules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, sched.Status)
	assert.True(t, sched.PaidAmount.Equal(money("200")))
	require.NotNil(t, sched.PaidDate)

	updated, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, updated.Status)
}

func TestApplyPaymentExactRemainingSettlesLine(t *testing.T) {
	service, repo, _, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "500")

	_, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("200")})
	require.NoError(t, err)
	_, err = service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("300")})
	require.NoError(t, err)

	sched, err := repo.GetSchedule(ctx, schedules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, sched.Status)
	assert.True(t, sched.Remaining().IsZero())

	updated, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.Status)
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	service, _, _, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "500")

	_, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("500.01")})
	assert.ErrorIs(t, err, ErrExceedsRemaining)

	_, err = service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("300")})
	require.NoError(t, err)
	_, err = service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("200.50")})
	assert.ErrorIs(t, err, ErrExceedsRemaining)
}

func TestApplyPaymentValidation(t *testing.T) {
	service, _, _, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "500")
	other, otherSchedules := newDebtWithSchedules(t, service, ctx, "100")

	_, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("0")})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: otherSchedules[0].ID, Amount: money("50")})
	assert.ErrorIs(t, err, ErrScheduleMismatch)

	_, err = service.ApplyPayment(ctx, Payment{DebtID: other.ID, ScheduleID: 999, Amount: money("50")})
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	_, err = service.ApplyPayment(ctx, Payment{DebtID: 999, ScheduleID: schedules[0].ID, Amount: money("50")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyPaymentDateDefaultsToToday(t *testing.T) {
	service, _, clock, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "500")

	p, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("100")})
	require.NoError(t, err)
	assert.Equal(t, utils.FormatDate(clock.FixedNow), utils.FormatDate(p.PaymentDate))
}

func TestDebtStatusStaysPartialUntilAllLinesPaid(t *testing.T) {
	service, repo, _, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "100", "100")

	_, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("100")})
	require.NoError(t, err)

	updated, err := repo.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, updated.Status)

	_, err = service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[1].ID, Amount: money("100")})
	require.NoError(t, err)

	updated, err = repo.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.Status)
}

func TestStatementTotals(t *testing.T) {
	service, _, _, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "300", "300", "400")
	_, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("300")})
	require.NoError(t, err)
	_, err = service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[1].ID, Amount: money("150")})
	require.NoError(t, err)

	statement, err := service.Statement(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, statement.TotalExpected.Equal(money("1000")))
	assert.True(t, statement.TotalPaid.Equal(money("450")))
	assert.True(t, statement.TotalRemaining.Equal(money("550")))
	require.Len(t, statement.Lines, 3)
	assert.True(t, statement.Lines[0].RemainingAmount.IsZero())
	assert.True(t, statement.Lines[1].RemainingAmount.Equal(money("150")))
	assert.True(t, statement.Lines[2].RemainingAmount.Equal(money("400")))
}

func TestDeleteScheduleWithPayments(t *testing.T) {
	service, _, _, ctx := setup(t)

	d, schedules := newDebtWithSchedules(t, service, ctx, "500", "500")
	_, err := service.ApplyPayment(ctx, Payment{DebtID: d.ID, ScheduleID: schedules[0].ID, Amount: money("100")})
	require.NoError(t, err)

	assert.ErrorIs(t, service.DeleteSchedule(ctx, schedules[0].ID), ErrScheduleHasPayments)
	assert.NoError(t, service.DeleteSchedule(ctx, schedules[1].ID))
}

func TestTotalOutstandingAcrossDebts(t *testing.T) {
	service, _, _, ctx := setup(t)

	a, aSchedules := newDebtWithSchedules(t, service, ctx, "1000")
	newDebtWithSchedules(t, service, ctx, "200", "200")

	_, err := service.ApplyPayment(ctx, Payment{DebtID: a.ID, ScheduleID: aSchedules[0].ID, Amount: money("400")})
	require.NoError(t, err)

	out, err := service.TotalOutstanding(ctx)
	require.NoError(t, err)
	assert.True(t, out.TotalExpected.Equal(money("1400")))
	assert.True(t, out.TotalPaid.Equal(money("400")))
	assert.True(t, out.TotalRemaining.Equal(money("1000")))
}
