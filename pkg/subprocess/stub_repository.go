package subprocess

import (
	"context"
	"sort"
	"time"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	items  map[int]SubProcess
	nextID int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{items: make(map[int]SubProcess), nextID: 1}
}

func (s *StubRepository) Store(_ context.Context, sp SubProcess) (SubProcess, error) {
	sp.ID = s.nextID
	s.nextID++
	s.items[sp.ID] = sp
	return sp, nil
}

func (s *StubRepository) Get(_ context.Context, id int) (SubProcess, error) {
	sp, ok := s.items[id]
	if !ok {
		return SubProcess{}, ErrNotFound
	}
	return sp, nil
}

func (s *StubRepository) Update(_ context.Context, sp SubProcess) (SubProcess, error) {
	if _, ok := s.items[sp.ID]; !ok {
		return SubProcess{}, ErrNotFound
	}
	s.items[sp.ID] = sp
	return sp, nil
}

func (s *StubRepository) Delete(_ context.Context, id int) error {
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *StubRepository) List(_ context.Context, filter Filter) ([]SubProcess, error) {
	var result []SubProcess
	for _, sp := range s.items {
		if filter.GoalID != nil && sp.GoalID != *filter.GoalID {
			continue
		}
		if filter.Status != nil && sp.Status != *filter.Status {
			continue
		}
		if filter.Focus != nil && sp.Focus != *filter.Focus {
			continue
		}
		result = append(result, sp)
	}
	sortByOrder(result)
	return result, nil
}

func (s *StubRepository) ListFocused(_ context.Context) ([]SubProcess, error) {
	var result []SubProcess
	for _, sp := range s.items {
		if sp.Focus && sp.Status == StatusPending {
			result = append(result, sp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *StubRepository) ShiftSortOrders(_ context.Context, goalID int, fromOrder int, excludeID int) error {
	for id, sp := range s.items {
		if sp.GoalID == goalID && sp.SortOrder >= fromOrder && sp.ID != excludeID {
			sp.SortOrder++
			s.items[id] = sp
		}
	}
	return nil
}

func (s *StubRepository) SetStatusForGoal(_ context.Context, goalID int, status Status, completedAt *time.Time) error {
	for id, sp := range s.items {
		if sp.GoalID != goalID {
			continue
		}
		sp.Status = status
		sp.CompletedAt = completedAt
		s.items[id] = sp
	}
	return nil
}

func (s *StubRepository) Cleanup() {
	s.items = make(map[int]SubProcess)
	s.nextID = 1
}

func sortByOrder(items []SubProcess) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
