package cashbook

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daylog/daylog/internal/utils"
)

// Report is the per-group breakdown of one side of the cash book.
type Report struct {
	Kind   Kind
	From   time.Time
	To     time.Time
	Total  decimal.Decimal
	Groups []GroupTotal
}

type Service interface {
	CreateGroup(ctx context.Context, kind Kind, name string) (Group, error)
	Groups(ctx context.Context, kind Kind) ([]Group, error)
	UpdateGroup(ctx context.Context, g Group) (Group, error)
	DeleteGroup(ctx context.Context, kind Kind, id int) error
	CreateEntry(ctx context.Context, e Entry) (Entry, error)
	GetEntry(ctx context.Context, kind Kind, id int) (Entry, error)
	UpdateEntry(ctx context.Context, e Entry) (Entry, error)
	DeleteEntry(ctx context.Context, kind Kind, id int) error
	ListEntries(ctx context.Context, kind Kind, filter Filter) ([]Entry, error)
	GroupReport(ctx context.Context, kind Kind, from, to time.Time) (Report, error)
	Summary(ctx context.Context, from, to time.Time) (Summary, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) CreateGroup(ctx context.Context, kind Kind, name string) (Group, error) {
	if !kind.Valid() {
		return Group{}, ErrInvalidKind
	}
	return s.repo.StoreGroup(ctx, Group{Kind: kind, Name: name})
}

func (s *ServiceImpl) Groups(ctx context.Context, kind Kind) ([]Group, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	return s.repo.ListGroups(ctx, kind)
}

func (s *ServiceImpl) UpdateGroup(ctx context.Context, g Group) (Group, error) {
	if !g.Kind.Valid() {
		return Group{}, ErrInvalidKind
	}
	return s.repo.UpdateGroup(ctx, g)
}

// DeleteGroup refuses to remove a group that still has entries.
func (s *ServiceImpl) DeleteGroup(ctx context.Context, kind Kind, id int) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	if _, err := s.repo.GetGroup(ctx, kind, id); err != nil {
		return err
	}
	count, err := s.repo.CountEntriesForGroup(ctx, kind, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrGroupInUse
	}
	return s.repo.DeleteGroup(ctx, kind, id)
}

func (s *ServiceImpl) CreateEntry(ctx context.Context, e Entry) (Entry, error) {
	if err := s.validateEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	now := s.clock.Now()
	if e.Date.IsZero() {
		e.Date = now
	}
	e.CreatedAt = now
	return s.repo.StoreEntry(ctx, e)
}

func (s *ServiceImpl) GetEntry(ctx context.Context, kind Kind, id int) (Entry, error) {
	if !kind.Valid() {
		return Entry{}, ErrInvalidKind
	}
	return s.repo.GetEntry(ctx, kind, id)
}

func (s *ServiceImpl) UpdateEntry(ctx context.Context, e Entry) (Entry, error) {
	if err := s.validateEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	return s.repo.UpdateEntry(ctx, e)
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, kind Kind, id int) error {
	if !kind.Valid() {
		return ErrInvalidKind
	}
	return s.repo.DeleteEntry(ctx, kind, id)
}

func (s *ServiceImpl) ListEntries(ctx context.Context, kind Kind, filter Filter) ([]Entry, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	return s.repo.ListEntries(ctx, kind, filter)
}

func (s *ServiceImpl) GroupReport(ctx context.Context, kind Kind, from, to time.Time) (Report, error) {
	if !kind.Valid() {
		return Report{}, ErrInvalidKind
	}
	totals, err := s.repo.GroupTotals(ctx, kind, from, to)
	if err != nil {
		return Report{}, err
	}
	report := Report{Kind: kind, From: from, To: to, Total: decimal.Zero, Groups: totals}
	for _, gt := range totals {
		report.Total = report.Total.Add(gt.Total)
	}
	return report, nil
}

func (s *ServiceImpl) Summary(ctx context.Context, from, to time.Time) (Summary, error) {
	income, err := s.repo.SumEntries(ctx, KindIncome, from, to)
	if err != nil {
		return Summary{}, err
	}
	expense, err := s.repo.SumEntries(ctx, KindExpense, from, to)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		From:         from,
		To:           to,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
	}, nil
}

func (s *ServiceImpl) validateEntry(ctx context.Context, e Entry) error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if !e.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := s.repo.GetGroup(ctx, e.Kind, e.GroupID); err != nil {
		return err
	}
	return nil
}
