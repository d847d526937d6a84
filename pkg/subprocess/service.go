package subprocess

import (
	"context"

	"github.com/daylog/daylog/internal/utils"
)

type Service interface {
	Create(ctx context.Context, sp SubProcess) (SubProcess, error)
	Get(ctx context.Context, id int) (SubProcess, error)
	Update(ctx context.Context, sp SubProcess) (SubProcess, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter Filter) ([]SubProcess, error)
	Focused(ctx context.Context) ([]SubProcess, error)
	ToggleFocus(ctx context.Context, id int) (SubProcess, error)
	ToggleStatus(ctx context.Context, id int) (SubProcess, error)
	Complete(ctx context.Context, id int) (SubProcess, error)
	UpdateSortOrder(ctx context.Context, id int, sortOrder int) (SubProcess, error)
	ListForGoal(ctx context.Context, goalID int) ([]SubProcess, error)
	CompleteAllForGoal(ctx context.Context, goalID int) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, sp SubProcess) (SubProcess, error) {
	if sp.EstimatedDays.LessThan(MinEstimatedDays) {
		return SubProcess{}, ErrInvalidEstimate
	}
	if sp.Status == "" {
		sp.Status = StatusPending
	}
	now := s.clock.Now()
	sp.CreatedAt = now
	sp.UpdatedAt = now
	stored, err := s.repo.Store(ctx, sp)
	if err != nil {
		return SubProcess{}, err
	}
	if sp.SortOrder > 0 {
		if err := s.repo.ShiftSortOrders(ctx, stored.GoalID, stored.SortOrder, stored.ID); err != nil {
			return SubProcess{}, err
		}
	}
	return stored, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (SubProcess, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, sp SubProcess) (SubProcess, error) {
	if sp.EstimatedDays.LessThan(MinEstimatedDays) {
		return SubProcess{}, ErrInvalidEstimate
	}
	existing, err := s.repo.Get(ctx, sp.ID)
	if err != nil {
		return SubProcess{}, err
	}
	sp.CreatedAt = existing.CreatedAt
	sp.CompletedAt = existing.CompletedAt
	if sp.Status == StatusDone && existing.Status != StatusDone {
		now := s.clock.Now()
		sp.CompletedAt = &now
	}
	if sp.Status != StatusDone {
		sp.CompletedAt = nil
	}
	sp.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, sp)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]SubProcess, error) {
	return s.repo.List(ctx, filter)
}

func (s *ServiceImpl) Focused(ctx context.Context) ([]SubProcess, error) {
	return s.repo.ListFocused(ctx)
}

func (s *ServiceImpl) ToggleFocus(ctx context.Context, id int) (SubProcess, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return SubProcess{}, err
	}
	sp.Focus = !sp.Focus
	sp.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, sp)
}

// ToggleStatus flips between PENDING and DONE, maintaining completed_at.
func (s *ServiceImpl) ToggleStatus(ctx context.Context, id int) (SubProcess, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return SubProcess{}, err
	}
	now := s.clock.Now()
	if sp.Status == StatusDone {
		sp.Status = StatusPending
		sp.CompletedAt = nil
	} else {
		sp.Status = StatusDone
		sp.CompletedAt = &now
	}
	sp.UpdatedAt = now
	return s.repo.Update(ctx, sp)
}

func (s *ServiceImpl) Complete(ctx context.Context, id int) (SubProcess, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return SubProcess{}, err
	}
	if sp.Status == StatusDone {
		return sp, nil
	}
	now := s.clock.Now()
	sp.Status = StatusDone
	sp.CompletedAt = &now
	sp.UpdatedAt = now
	return s.repo.Update(ctx, sp)
}

// UpdateSortOrder moves the sub-process to the requested position and
// pushes siblings at or after it one step down.
func (s *ServiceImpl) UpdateSortOrder(ctx context.Context, id int, sortOrder int) (SubProcess, error) {
	sp, err := s.repo.Get(ctx, id)
	if err != nil {
		return SubProcess{}, err
	}
	if err := s.repo.ShiftSortOrders(ctx, sp.GoalID, sortOrder, sp.ID); err != nil {
		return SubProcess{}, err
	}
	sp.SortOrder = sortOrder
	sp.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, sp)
}

func (s *ServiceImpl) ListForGoal(ctx context.Context, goalID int) ([]SubProcess, error) {
	return s.repo.List(ctx, Filter{GoalID: &goalID})
}

func (s *ServiceImpl) CompleteAllForGoal(ctx context.Context, goalID int) error {
	now := s.clock.Now()
	return s.repo.SetStatusForGoal(ctx, goalID, StatusDone, &now)
}
