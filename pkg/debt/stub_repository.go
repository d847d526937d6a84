package debt

import (
	"context"
	"sort"
)

type StubRepository struct {
	debts        map[int]Debt
	schedules    map[int]Schedule
	payments     map[int]Payment
	nextDebt     int
	nextSchedule int
	nextPayment  int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		debts:        map[int]Debt{},
		schedules:    map[int]Schedule{},
		payments:     map[int]Payment{},
		nextDebt:     1,
		nextSchedule: 1,
		nextPayment:  1,
	}
}

func (r *StubRepository) Cleanup() {
	r.debts = map[int]Debt{}
	r.schedules = map[int]Schedule{}
	r.payments = map[int]Payment{}
	r.nextDebt = 1
	r.nextSchedule = 1
	r.nextPayment = 1
}

func (r *StubRepository) Store(_ context.Context, d Debt) (Debt, error) {
	d.ID = r.nextDebt
	r.nextDebt++
	r.debts[d.ID] = d
	return d, nil
}

func (r *StubRepository) Get(_ context.Context, id int) (Debt, error) {
	d, ok := r.debts[id]
	if !ok {
		return Debt{}, ErrNotFound
	}
	return d, nil
}

func (r *StubRepository) Update(_ context.Context, d Debt) (Debt, error) {
	if _, ok := r.debts[d.ID]; !ok {
		return Debt{}, ErrNotFound
	}
	r.debts[d.ID] = d
	return d, nil
}

func (r *StubRepository) Delete(_ context.Context, id int) error {
	if _, ok := r.debts[id]; !ok {
		return ErrNotFound
	}
	delete(r.debts, id)
	return nil
}

func (r *StubRepository) List(_ context.Context, status *Status) ([]Debt, error) {
	debts := make([]Debt, 0, len(r.debts))
	for _, d := range r.debts {
		if status != nil && d.Status != *status {
			continue
		}
		debts = append(debts, d)
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].ID < debts[j].ID })
	return debts, nil
}

func (r *StubRepository) StoreSchedule(_ context.Context, s Schedule) (Schedule, error) {
	s.ID = r.nextSchedule
	r.nextSchedule++
	r.schedules[s.ID] = s
	return s, nil
}

func (r *StubRepository) GetSchedule(_ context.Context, id int) (Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return Schedule{}, ErrScheduleNotFound
	}
	return s, nil
}

func (r *StubRepository) UpdateSchedule(_ context.Context, s Schedule) (Schedule, error) {
	if _, ok := r.schedules[s.ID]; !ok {
		return Schedule{}, ErrScheduleNotFound
	}
	r.schedules[s.ID] = s
	return s, nil
}

func (r *StubRepository) DeleteSchedule(_ context.Context, id int) error {
	if _, ok := r.schedules[id]; !ok {
		return ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

func (r *StubRepository) SchedulesForDebt(_ context.Context, debtID int) ([]Schedule, error) {
	schedules := make([]Schedule, 0)
	for _, s := range r.schedules {
		if s.DebtID == debtID {
			schedules = append(schedules, s)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].SNo < schedules[j].SNo })
	return schedules, nil
}

func (r *StubRepository) CountPaymentsForSchedule(_ context.Context, scheduleID int) (int, error) {
	count := 0
	for _, p := range r.payments {
		if p.ScheduleID == scheduleID {
			count++
		}
	}
	return count, nil
}

func (r *StubRepository) PaymentsForDebt(_ context.Context, debtID int) ([]Payment, error) {
	payments := make([]Payment, 0)
	for _, p := range r.payments {
		if p.DebtID == debtID {
			payments = append(payments, p)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID > payments[j].ID })
	return payments, nil
}

func (r *StubRepository) ApplyPayment(_ context.Context, p Payment, s Schedule, debtStatus Status) (Payment, error) {
	p.ID = r.nextPayment
	r.nextPayment++
	r.payments[p.ID] = p
	r.schedules[s.ID] = s
	d := r.debts[p.DebtID]
	d.Status = debtStatus
	r.debts[d.ID] = d
	return p, nil
}
