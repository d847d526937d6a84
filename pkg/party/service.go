package party

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/daylog/daylog/internal/utils"
)

// LedgerView is a ledger with its derived current position.
type LedgerView struct {
	Ledger
	CurrentBalance decimal.Decimal
	CurrentNature  Nature
}

// Outstanding totals all parties on the receivable axis.
type Outstanding struct {
	TotalReceivable decimal.Decimal
	TotalPayable    decimal.Decimal
	Net             decimal.Decimal
}

type Service interface {
	CreateLedger(ctx context.Context, l Ledger) (Ledger, error)
	GetLedger(ctx context.Context, id int) (LedgerView, error)
	UpdateLedger(ctx context.Context, l Ledger) (Ledger, error)
	DeleteLedger(ctx context.Context, id int) error
	ListLedgers(ctx context.Context) ([]LedgerView, error)
	CreateTransaction(ctx context.Context, t Transaction) (Transaction, error)
	GetTransaction(ctx context.Context, id int) (Transaction, error)
	UpdateTransaction(ctx context.Context, t Transaction) (Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
	ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error)
	PartyStatement(ctx context.Context, partyID int) (Ledger, []StatementLine, error)
	TotalOutstanding(ctx context.Context) (Outstanding, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) CreateLedger(ctx context.Context, l Ledger) (Ledger, error) {
	if !l.BalanceNature.Valid() {
		return Ledger{}, ErrInvalidNature
	}
	if l.OpeningBalance.IsNegative() {
		return Ledger{}, ErrInvalidAmount
	}
	l.CreatedAt = s.clock.Now()
	return s.repo.StoreLedger(ctx, l)
}

func (s *ServiceImpl) GetLedger(ctx context.Context, id int) (LedgerView, error) {
	l, err := s.repo.GetLedger(ctx, id)
	if err != nil {
		return LedgerView{}, err
	}
	return s.view(ctx, l)
}

func (s *ServiceImpl) UpdateLedger(ctx context.Context, l Ledger) (Ledger, error) {
	if !l.BalanceNature.Valid() {
		return Ledger{}, ErrInvalidNature
	}
	if l.OpeningBalance.IsNegative() {
		return Ledger{}, ErrInvalidAmount
	}
	return s.repo.UpdateLedger(ctx, l)
}

// DeleteLedger refuses to remove a party with recorded transactions.
func (s *ServiceImpl) DeleteLedger(ctx context.Context, id int) error {
	if _, err := s.repo.GetLedger(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountTransactions(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrLedgerInUse
	}
	return s.repo.DeleteLedger(ctx, id)
}

func (s *ServiceImpl) ListLedgers(ctx context.Context) ([]LedgerView, error) {
	ledgers, err := s.repo.ListLedgers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]LedgerView, 0, len(ledgers))
	for _, l := range ledgers {
		v, err := s.view(ctx, l)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *ServiceImpl) CreateTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	if err := s.validateTransaction(ctx, t); err != nil {
		return Transaction{}, err
	}
	now := s.clock.Now()
	if t.Date.IsZero() {
		t.Date = now
	}
	t.CreatedAt = now
	return s.repo.StoreTransaction(ctx, t)
}

func (s *ServiceImpl) GetTransaction(ctx context.Context, id int) (Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *ServiceImpl) UpdateTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	if err := s.validateTransaction(ctx, t); err != nil {
		return Transaction{}, err
	}
	return s.repo.UpdateTransaction(ctx, t)
}

func (s *ServiceImpl) DeleteTransaction(ctx context.Context, id int) error {
	return s.repo.DeleteTransaction(ctx, id)
}

func (s *ServiceImpl) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// PartyStatement returns the ledger plus its full running-balance
// statement, opening line first.
func (s *ServiceImpl) PartyStatement(ctx context.Context, partyID int) (Ledger, []StatementLine, error) {
	l, err := s.repo.GetLedger(ctx, partyID)
	if err != nil {
		return Ledger{}, nil, err
	}
	transactions, err := s.repo.TransactionsForParty(ctx, partyID)
	if err != nil {
		return Ledger{}, nil, err
	}
	return l, Statement(l, transactions), nil
}

// TotalOutstanding sums every party's current balance, split by the
// nature each balance currently leans to.
func (s *ServiceImpl) TotalOutstanding(ctx context.Context) (Outstanding, error) {
	views, err := s.ListLedgers(ctx)
	if err != nil {
		return Outstanding{}, err
	}
	out := Outstanding{
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
		Net:             decimal.Zero,
	}
	for _, v := range views {
		if v.CurrentNature == NaturePayable {
			out.TotalPayable = out.TotalPayable.Add(v.CurrentBalance.Abs())
		} else {
			out.TotalReceivable = out.TotalReceivable.Add(v.CurrentBalance)
		}
		out.Net = out.Net.Add(v.CurrentBalance)
	}
	return out, nil
}

func (s *ServiceImpl) view(ctx context.Context, l Ledger) (LedgerView, error) {
	transactions, err := s.repo.TransactionsForParty(ctx, l.ID)
	if err != nil {
		return LedgerView{}, err
	}
	balance := Balance(l, transactions)
	return LedgerView{
		Ledger:         l,
		CurrentBalance: balance,
		CurrentNature:  DeriveNature(balance),
	}, nil
}

func (s *ServiceImpl) validateTransaction(ctx context.Context, t Transaction) error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := s.repo.GetLedger(ctx, t.PartyID); err != nil {
		return err
	}
	return nil
}
