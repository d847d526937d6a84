package goal

import (
	"context"
	"sort"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	goals  map[int]Goal
	nextID int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{goals: make(map[int]Goal), nextID: 1}
}

func (s *StubRepository) Store(_ context.Context, g Goal) (Goal, error) {
	g.ID = s.nextID
	s.nextID++
	s.goals[g.ID] = g
	return g, nil
}

func (s *StubRepository) Get(_ context.Context, id int) (Goal, error) {
	g, ok := s.goals[id]
	if !ok {
		return Goal{}, ErrNotFound
	}
	return g, nil
}

func (s *StubRepository) Update(_ context.Context, g Goal) (Goal, error) {
	if _, ok := s.goals[g.ID]; !ok {
		return Goal{}, ErrNotFound
	}
	s.goals[g.ID] = g
	return g, nil
}

func (s *StubRepository) Delete(_ context.Context, id int) error {
	if _, ok := s.goals[id]; !ok {
		return ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *StubRepository) List(_ context.Context, status *Status) ([]Goal, error) {
	var result []Goal
	for _, g := range s.goals {
		if status != nil && g.Status != *status {
			continue
		}
		result = append(result, g)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *StubRepository) ShiftSortOrders(_ context.Context, fromOrder int, excludeID int) error {
	for id, g := range s.goals {
		if g.SortOrder >= fromOrder && g.ID != excludeID {
			g.SortOrder++
			s.goals[id] = g
		}
	}
	return nil
}

func (s *StubRepository) SetSortOrder(_ context.Context, id int, sortOrder int) error {
	g, ok := s.goals[id]
	if !ok {
		return nil
	}
	g.SortOrder = sortOrder
	s.goals[id] = g
	return nil
}

func (s *StubRepository) Cleanup() {
	s.goals = make(map[int]Goal)
	s.nextID = 1
}
