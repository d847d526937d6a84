package task

import (
	"context"
	"math"
	"time"

	"github.com/daylog/daylog/internal/utils"
)

type Service interface {
	Create(ctx context.Context, t Task) (Task, error)
	Get(ctx context.Context, id int) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	UpdateStatus(ctx context.Context, id int, status Status) (Task, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter Filter) ([]Task, error)
	Today(ctx context.Context) ([]Task, error)
	Overdue(ctx context.Context) ([]Task, error)
	CompletedToday(ctx context.Context) ([]Task, error)
	Upcoming(ctx context.Context, days int) ([]Task, error)
	Summary(ctx context.Context) (StatusSummary, error)
	CompletionReport(ctx context.Context, from, to time.Time) (CompletionReport, error)
	MonthlyStats(ctx context.Context, year int) ([]MonthlyStat, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
	loc   *time.Location
}

func NewService(repo Repository, clock utils.Clock, loc *time.Location) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock, loc: loc}
}

func (s *ServiceImpl) Create(ctx context.Context, t Task) (Task, error) {
	if err := validateTime(t.TaskTime); err != nil {
		return Task{}, err
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !t.Status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !t.Priority.Valid() {
		return Task{}, ErrInvalidPriority
	}
	now := s.clock.Now()
	if t.TaskDate.IsZero() {
		t.TaskDate = now.In(s.loc)
	}
	if t.Status == StatusCompleted {
		t.CompletedAt = &now
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.repo.Store(ctx, t)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, t Task) (Task, error) {
	if err := validateTime(t.TaskTime); err != nil {
		return Task{}, err
	}
	if !t.Status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	if !t.Priority.Valid() {
		return Task{}, ErrInvalidPriority
	}
	existing, err := s.repo.Get(ctx, t.ID)
	if err != nil {
		return Task{}, err
	}
	t.CreatedAt = existing.CreatedAt
	t.CompletedAt = transitionCompletedAt(existing, t.Status, s.clock.Now())
	t.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, t)
}

func (s *ServiceImpl) UpdateStatus(ctx context.Context, id int, status Status) (Task, error) {
	if !status.Valid() {
		return Task{}, ErrInvalidStatus
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	t.CompletedAt = transitionCompletedAt(t, status, s.clock.Now())
	t.Status = status
	t.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, t)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Task, error) {
	return s.repo.List(ctx, filter)
}

func (s *ServiceImpl) Today(ctx context.Context) ([]Task, error) {
	today := s.clock.Now().In(s.loc)
	return s.repo.List(ctx, Filter{From: today, To: today})
}

// Overdue returns open tasks scheduled in the past, including tasks
// scheduled earlier today with an explicit time.
func (s *ServiceImpl) Overdue(ctx context.Context) ([]Task, error) {
	now := s.clock.Now()
	today := now.In(s.loc)
	candidates, err := s.repo.List(ctx, Filter{To: today})
	if err != nil {
		return nil, err
	}
	var overdue []Task
	for _, t := range candidates {
		if t.IsOverdue(now, s.loc) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

func (s *ServiceImpl) CompletedToday(ctx context.Context) ([]Task, error) {
	today := s.clock.Now().In(s.loc)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)
	return s.repo.CompletedBetween(ctx, start, start.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// Upcoming returns open tasks due within the next days, today included.
func (s *ServiceImpl) Upcoming(ctx context.Context, days int) ([]Task, error) {
	today := s.clock.Now().In(s.loc)
	tasks, err := s.repo.List(ctx, Filter{From: today, To: today.AddDate(0, 0, days)})
	if err != nil {
		return nil, err
	}
	var open []Task
	for _, t := range tasks {
		if t.IsOpen() {
			open = append(open, t)
		}
	}
	return open, nil
}

func (s *ServiceImpl) Summary(ctx context.Context) (StatusSummary, error) {
	return s.repo.CountByStatus(ctx)
}

// CompletionReport breaks completed tasks down per day and priority,
// with the average hours from creation to completion.
func (s *ServiceImpl) CompletionReport(ctx context.Context, from, to time.Time) (CompletionReport, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	completed, err := s.repo.CompletedBetween(ctx, start.UTC(), end.UTC())
	if err != nil {
		return CompletionReport{}, err
	}

	report := CompletionReport{From: from, To: to, TotalCompleted: len(completed)}
	byDay := make(map[string]*DayCompletion)
	var totalHours float64
	var measured int
	for _, t := range completed {
		day := t.CompletedAt.In(s.loc)
		key := day.Format(utils.DateLayout)
		dc, ok := byDay[key]
		if !ok {
			dc = &DayCompletion{
				Date:       time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc),
				ByPriority: make(map[Priority]int),
			}
			byDay[key] = dc
		}
		dc.Total++
		dc.ByPriority[t.Priority]++
		if hours, ok := t.CompletionHours(); ok {
			totalHours += hours
			measured++
		}
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if dc, ok := byDay[d.Format(utils.DateLayout)]; ok {
			report.Days = append(report.Days, *dc)
		}
	}
	if measured > 0 {
		report.AvgCompletionHours = math.Round(totalHours/float64(measured)*10) / 10
	}
	return report, nil
}

func (s *ServiceImpl) MonthlyStats(ctx context.Context, year int) ([]MonthlyStat, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, s.loc)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, s.loc).Add(-time.Nanosecond)
	completed, err := s.repo.CompletedBetween(ctx, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	byMonth := make(map[int]int)
	for _, t := range completed {
		byMonth[int(t.CompletedAt.In(s.loc).Month())]++
	}
	stats := make([]MonthlyStat, 0, 12)
	for m := 1; m <= 12; m++ {
		stats = append(stats, MonthlyStat{Month: m, Completed: byMonth[m]})
	}
	return stats, nil
}

// transitionCompletedAt keeps completed_at in step with status moves:
// set on entering COMPLETED, cleared on leaving it.
func transitionCompletedAt(existing Task, next Status, now time.Time) *time.Time {
	if next == StatusCompleted {
		if existing.Status == StatusCompleted {
			return existing.CompletedAt
		}
		return &now
	}
	return nil
}

func validateTime(taskTime string) error {
	if taskTime == "" {
		return nil
	}
	if _, err := time.Parse(TimeLayout, taskTime); err != nil {
		return ErrInvalidTime
	}
	return nil
}
