package debt

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daylog/daylog/internal/utils"
)

type Service interface {
	Create(ctx context.Context, d Debt) (Debt, error)
	Get(ctx context.Context, id int) (Debt, error)
	Update(ctx context.Context, d Debt) (Debt, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, status *Status) ([]Debt, error)
	CreateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	GetSchedule(ctx context.Context, id int) (Schedule, error)
	UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id int) error
	Schedules(ctx context.Context, debtID int) ([]Schedule, error)
	Payments(ctx context.Context, debtID int) ([]Payment, error)
	ApplyPayment(ctx context.Context, p Payment) (Payment, error)
	Statement(ctx context.Context, debtID int) (DebtStatement, error)
	TotalOutstanding(ctx context.Context) (Outstanding, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
	loc   *time.Location
}

func NewService(repo Repository, clock utils.Clock, loc *time.Location) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock, loc: loc}
}

func (s *ServiceImpl) Create(ctx context.Context, d Debt) (Debt, error) {
	if !d.Type.Valid() {
		return Debt{}, ErrInvalidType
	}
	d.Status = StatusPending
	d.CreatedAt = s.clock.Now()
	return s.repo.Store(ctx, d)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Debt, error) {
	return s.repo.Get(ctx, id)
}

// Update changes a debt's name and type. Status stays derived from the
// schedule lines and is never taken from the caller.
func (s *ServiceImpl) Update(ctx context.Context, d Debt) (Debt, error) {
	if !d.Type.Valid() {
		return Debt{}, ErrInvalidType
	}
	existing, err := s.repo.Get(ctx, d.ID)
	if err != nil {
		return Debt{}, err
	}
	d.Status = existing.Status
	d.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, d)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, status *Status) ([]Debt, error) {
	return s.repo.List(ctx, status)
}

func (s *ServiceImpl) CreateSchedule(ctx context.Context, sched Schedule) (Schedule, error) {
	if !sched.ExpectedAmount.IsPositive() {
		return Schedule{}, ErrInvalidAmount
	}
	if _, err := s.repo.Get(ctx, sched.DebtID); err != nil {
		return Schedule{}, err
	}
	sched.PaidAmount = decimal.Zero
	sched.PaidDate = nil
	sched.Status = StatusPending
	sched.CreatedAt = s.clock.Now()
	if sched.SNo == 0 {
		existing, err := s.repo.SchedulesForDebt(ctx, sched.DebtID)
		if err != nil {
			return Schedule{}, err
		}
		sched.SNo = nextSNo(existing)
	}
	return s.repo.StoreSchedule(ctx, sched)
}

func (s *ServiceImpl) GetSchedule(ctx context.Context, id int) (Schedule, error) {
	return s.repo.GetSchedule(ctx, id)
}

// UpdateSchedule edits the expected side of a line and allows marking
// it Skipped. The paid side only moves through ApplyPayment.
func (s *ServiceImpl) UpdateSchedule(ctx context.Context, sched Schedule) (Schedule, error) {
	if !sched.ExpectedAmount.IsPositive() {
		return Schedule{}, ErrInvalidAmount
	}
	existing, err := s.repo.GetSchedule(ctx, sched.ID)
	if err != nil {
		return Schedule{}, err
	}
	sched.DebtID = existing.DebtID
	sched.PaidAmount = existing.PaidAmount
	sched.PaidDate = existing.PaidDate
	sched.CreatedAt = existing.CreatedAt
	if sched.Status != StatusSkipped {
		sched.Status = ScheduleStatusFor(sched.PaidAmount, sched.ExpectedAmount)
	}
	return s.repo.UpdateSchedule(ctx, sched)
}

// DeleteSchedule refuses to remove a line that has payments against it.
func (s *ServiceImpl) DeleteSchedule(ctx context.Context, id int) error {
	if _, err := s.repo.GetSchedule(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountPaymentsForSchedule(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrScheduleHasPayments
	}
	return s.repo.DeleteSchedule(ctx, id)
}

func (s *ServiceImpl) Schedules(ctx context.Context, debtID int) ([]Schedule, error) {
	if _, err := s.repo.Get(ctx, debtID); err != nil {
		return nil, err
	}
	return s.repo.SchedulesForDebt(ctx, debtID)
}

func (s *ServiceImpl) Payments(ctx context.Context, debtID int) ([]Payment, error) {
	if _, err := s.repo.Get(ctx, debtID); err != nil {
		return nil, err
	}
	return s.repo.PaymentsForDebt(ctx, debtID)
}

// ApplyPayment settles money against one schedule line. The payment,
// the line's new paid state and the debt's recomputed status land in a
// single transaction.
func (s *ServiceImpl) ApplyPayment(ctx context.Context, p Payment) (Payment, error) {
	if !p.Amount.IsPositive() {
		return Payment{}, ErrInvalidAmount
	}
	d, err := s.repo.Get(ctx, p.DebtID)
	if err != nil {
		return Payment{}, err
	}
	sched, err := s.repo.GetSchedule(ctx, p.ScheduleID)
	if err != nil {
		return Payment{}, err
	}
	if sched.DebtID != p.DebtID {
		return Payment{}, ErrScheduleMismatch
	}
	if p.Amount.GreaterThan(sched.Remaining()) {
		return Payment{}, ErrExceedsRemaining
	}

	now := s.clock.Now()
	if p.PaymentDate.IsZero() {
		p.PaymentDate = now.In(s.loc)
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	sched.PaidAmount = sched.PaidAmount.Add(p.Amount)
	paidDate := p.PaymentDate
	sched.PaidDate = &paidDate
	sched.Status = ScheduleStatusFor(sched.PaidAmount, sched.ExpectedAmount)

	schedules, err := s.repo.SchedulesForDebt(ctx, p.DebtID)
	if err != nil {
		return Payment{}, err
	}
	for i := range schedules {
		if schedules[i].ID == sched.ID {
			schedules[i] = sched
		}
	}
	debtStatus := DeriveStatus(d.Status, schedules)

	return s.repo.ApplyPayment(ctx, p, sched, debtStatus)
}

func (s *ServiceImpl) Statement(ctx context.Context, debtID int) (DebtStatement, error) {
	d, err := s.repo.Get(ctx, debtID)
	if err != nil {
		return DebtStatement{}, err
	}
	schedules, err := s.repo.SchedulesForDebt(ctx, debtID)
	if err != nil {
		return DebtStatement{}, err
	}
	return BuildStatement(d, schedules), nil
}

// TotalOutstanding sums expected, paid and remaining amounts across
// every debt's schedule lines.
func (s *ServiceImpl) TotalOutstanding(ctx context.Context) (Outstanding, error) {
	debts, err := s.repo.List(ctx, nil)
	if err != nil {
		return Outstanding{}, err
	}
	out := Outstanding{
		TotalExpected:  decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for _, d := range debts {
		schedules, err := s.repo.SchedulesForDebt(ctx, d.ID)
		if err != nil {
			return Outstanding{}, err
		}
		statement := BuildStatement(d, schedules)
		out.TotalExpected = out.TotalExpected.Add(statement.TotalExpected)
		out.TotalPaid = out.TotalPaid.Add(statement.TotalPaid)
		out.TotalRemaining = out.TotalRemaining.Add(statement.TotalRemaining)
	}
	return out, nil
}

func nextSNo(schedules []Schedule) int {
	max := 0
	for _, s := range schedules {
		if s.SNo > max {
			max = s.SNo
		}
	}
	return max + 1
}
