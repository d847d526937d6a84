package party

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
	return NewService(repo, clock), repo, clock, context.Background()
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCreateLedgerValidation(t *testing.T) {
	service, _, _, ctx := setup(t)

	_, err := service.CreateLedger(ctx, Ledger{PartyName: "Acme", OpeningBalance: money("100"), BalanceNature: "Sideways"})
	assert.ErrorIs(t, err, ErrInvalidNature)

	_, err = service.CreateLedger(ctx, Ledger{PartyName: "Acme", OpeningBalance: money("-5"), BalanceNature: NatureReceivable})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestPayableOpeningCountsNegative(t *testing.T) {
	service, _, _, ctx := setup(t)

	l, err := service.CreateLedger(ctx, Ledger{PartyName: "Supplier", OpeningBalance: money("500"), BalanceNature: NaturePayable})
	require.NoError(t, err)

	view, err := service.GetLedger(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, view.CurrentBalance.Equal(money("-500")))
	assert.Equal(t, NaturePayable, view.CurrentNature)
}

func TestTransactionSigning(t *testing.T) {
	service, _, _, ctx := setup(t)

	l, err := service.CreateLedger(ctx, Ledger{PartyName: "Client", OpeningBalance: money("1000"), BalanceNature: NatureReceivable})
	require.NoError(t, err)

	_, err = service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Type: TypeMoneyIn, Amount: money("300")})
	require.NoError(t, err)
	_, err = service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Type: TypeMoneyOut, Amount: money("150")})
	require.NoError(t, err)

	view, err := service.GetLedger(ctx, l.ID)
	require.NoError(t, err)
	// Money In adds on the receivable axis, Money Out subtracts.
	assert.True(t, view.CurrentBalance.Equal(money("1150")), "got %s", view.CurrentBalance)
}

func TestCreateTransactionValidation(t *testing.T) {
	service, _, _, ctx := setup(t)

	l, err := service.CreateLedger(ctx, Ledger{PartyName: "Client", OpeningBalance: money("0"), BalanceNature: NatureReceivable})
	require.NoError(t, err)

	_, err = service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Type: "Transfer", Amount: money("10")})
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Type: TypeMoneyIn, Amount: money("0")})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = service.CreateTransaction(ctx, Transaction{PartyID: 999, Type: TypeMoneyIn, Amount: money("10")})
	assert.ErrorIs(t, err, ErrLedgerNotFound)
}

func TestTransactionDateDefaultsToNow(t *testing.T) {
	service, _, clock, ctx := setup(t)

	l, err := service.CreateLedger(ctx, Ledger{PartyName: "Client", OpeningBalance: money("0"), BalanceNature: NatureReceivable})
	require.NoError(t, err)

	created, err := service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Type: TypeMoneyIn, Amount: money("10")})
	require.NoError(t, err)
	assert.Equal(t, clock.FixedNow, created.Date)
}

func TestPartyStatementRunningBalance(t *testing.T) {
	service, _, _, ctx := setup(t)

	l, err := service.CreateLedger(ctx, Ledger{PartyName: "Client", OpeningBalance: money("200"), BalanceNature: NatureReceivable})
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	_, err = service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Date: day(10), Type: TypeMoneyOut, Amount: money("100"), Notes: "loan"})
	require.NoError(t, err)
	_, err = service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Date: day(12), Type: TypeMoneyIn, Amount: money("250"), Notes: "repayment"})
	require.NoError(t, err)

	ledger, lines, err := service.PartyStatement(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Client", ledger.PartyName)
	require.Len(t, lines, 3)

	assert.True(t, lines[0].IsOpening)
	assert.True(t, lines[0].Balance.Equal(money("200")))
	assert.Equal(t, "loan", lines[1].Description)
	assert.True(t, lines[1].Balance.Equal(money("100")))
	assert.Equal(t, "repayment", lines[2].Description)
	assert.True(t, lines[2].Balance.Equal(money("350")))
}

func TestDeleteLedgerWithTransactions(t *testing.T) {
	service, _, _, ctx := setup(t)

	l, err := service.CreateLedger(ctx, Ledger{PartyName: "Client", OpeningBalance: money("0"), BalanceNature: NatureReceivable})
	require.NoError(t, err)
	_, err = service.CreateTransaction(ctx, Transaction{PartyID: l.ID, Type: TypeMoneyIn, Amount: money("10")})
	require.NoError(t, err)

	err = service.DeleteLedger(ctx, l.ID)
	assert.ErrorIs(t, err, ErrLedgerInUse)

	empty, err := service.CreateLedger(ctx, Ledger{PartyName: "Fresh", OpeningBalance: money("0"), BalanceNature: NatureReceivable})
	require.NoError(t, err)
	assert.NoError(t, service.DeleteLedger(ctx, empty.ID))
}

func TestTotalOutstanding(t *testing.T) {
	service, _, _, ctx := setup(t)

	// Receivable party ends at 500.
	a, err := service.CreateLedger(ctx, Ledger{PartyName: "A", OpeningBalance: money("300"), BalanceNature: NatureReceivable})
	require.NoError(t, err)
	_, err = service.CreateTransaction(ctx, Transaction{PartyID: a.ID, Type: TypeMoneyIn, Amount: money("200")})
	require.NoError(t, err)

	// Payable party ends at -150.
	_, err = service.CreateLedger(ctx, Ledger{PartyName: "B", OpeningBalance: money("150"), BalanceNature: NaturePayable})
	require.NoError(t, err)

	// Opened Payable but repaid past zero, so it now leans Receivable.
	c, err := service.CreateLedger(ctx, Ledger{PartyName: "C", OpeningBalance: money("100"), BalanceNature: NaturePayable})
	require.NoError(t, err)
	_, err = service.CreateTransaction(ctx, Transaction{PartyID: c.ID, Type: TypeMoneyIn, Amount: money("120")})
	require.NoError(t, err)

	out, err := service.TotalOutstanding(ctx)
	require.NoError(t, err)
	assert.True(t, out.TotalReceivable.Equal(money("520")), "receivable %s", out.TotalReceivable)
	assert.True(t, out.TotalPayable.Equal(money("150")), "payable %s", out.TotalPayable)
	assert.True(t, out.Net.Equal(money("370")), "net %s", out.Net)
}
