package goal

import (
	"context"
	"math"

	"github.com/shopspring/decimal"

	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/subprocess"
)

// SubProcessProvider is the slice of the sub-process service goals need.
type SubProcessProvider interface {
	ListForGoal(ctx context.Context, goalID int) ([]subprocess.SubProcess, error)
	CompleteAllForGoal(ctx context.Context, goalID int) error
}

type Service interface {
	Create(ctx context.Context, g Goal) (Goal, error)
	Get(ctx context.Context, id int) (Goal, error)
	Update(ctx context.Context, g Goal) (Goal, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, status *Status) ([]Goal, error)
	Statistics(ctx context.Context, id int) (Statistics, error)
	MarkCompleted(ctx context.Context, id int) (Goal, error)
	UpdateSortOrder(ctx context.Context, id int, sortOrder int) (Goal, error)
	UpdateOrders(ctx context.Context, orders []OrderUpdate) error
	SubProcesses(ctx context.Context, id int) ([]subprocess.SubProcess, error)
}

type ServiceImpl struct {
	repo         Repository
	subProcesses SubProcessProvider
	clock        utils.Clock
}

func NewService(repo Repository, subProcesses SubProcessProvider, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, subProcesses: subProcesses, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, g Goal) (Goal, error) {
	if g.Status == "" {
		g.Status = StatusUnfocused
	}
	now := s.clock.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	stored, err := s.repo.Store(ctx, g)
	if err != nil {
		return Goal{}, err
	}
	if g.SortOrder > 0 {
		if err := s.repo.ShiftSortOrders(ctx, stored.SortOrder, stored.ID); err != nil {
			return Goal{}, err
		}
	}
	return stored, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Goal, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, g Goal) (Goal, error) {
	existing, err := s.repo.Get(ctx, g.ID)
	if err != nil {
		return Goal{}, err
	}
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, g)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, status *Status) ([]Goal, error) {
	return s.repo.List(ctx, status)
}

// Statistics aggregates sub-process progress. The time-based measure
// weighs each sub-process by its estimated days; the count-based one
// treats them equally.
func (s *ServiceImpl) Statistics(ctx context.Context, id int) (Statistics, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Statistics{}, err
	}
	items, err := s.subProcesses.ListForGoal(ctx, id)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		GoalID:             id,
		TotalSubProcesses:  len(items),
		TotalEstimatedDays: decimal.Zero,
		CompletedDays:      decimal.Zero,
		RemainingDays:      decimal.Zero,
	}
	for _, sp := range items {
		stats.TotalEstimatedDays = stats.TotalEstimatedDays.Add(sp.EstimatedDays)
		if sp.Status == subprocess.StatusDone {
			stats.CompletedCount++
			stats.CompletedDays = stats.CompletedDays.Add(sp.EstimatedDays)
		}
		if sp.Focus {
			stats.FocusedCount++
		}
	}
	stats.RemainingDays = stats.TotalEstimatedDays.Sub(stats.CompletedDays)
	stats.TimeProgressPercent = percentOfDecimal(stats.CompletedDays, stats.TotalEstimatedDays)
	stats.CountProgressPercent = percentOf(stats.CompletedCount, stats.TotalSubProcesses)
	return stats, nil
}

// MarkCompleted finishes the goal and every sub-process under it.
func (s *ServiceImpl) MarkCompleted(ctx context.Context, id int) (Goal, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return Goal{}, err
	}
	if err := s.subProcesses.CompleteAllForGoal(ctx, id); err != nil {
		return Goal{}, err
	}
	g.Status = StatusDone
	g.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, g)
}

func (s *ServiceImpl) UpdateSortOrder(ctx context.Context, id int, sortOrder int) (Goal, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return Goal{}, err
	}
	if err := s.repo.ShiftSortOrders(ctx, sortOrder, g.ID); err != nil {
		return Goal{}, err
	}
	g.SortOrder = sortOrder
	g.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, g)
}

// OrderUpdate is one entry of a batch reorder.
type OrderUpdate struct {
	ID        int
	SortOrder int
}

// UpdateOrders applies each position directly without shifting the
// others. Entries without an id are skipped; unknown ids are ignored.
func (s *ServiceImpl) UpdateOrders(ctx context.Context, orders []OrderUpdate) error {
	for _, o := range orders {
		if o.ID == 0 {
			continue
		}
		if err := s.repo.SetSortOrder(ctx, o.ID, o.SortOrder); err != nil {
			return err
		}
	}
	return nil
}

func (s *ServiceImpl) SubProcesses(ctx context.Context, id int) ([]subprocess.SubProcess, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.subProcesses.ListForGoal(ctx, id)
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func percentOfDecimal(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	ratio, _ := part.Div(total).Float64()
	return math.Round(ratio*1000) / 10
}
