package task

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/daylog/daylog/internal/utils"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	tasks  map[int]Task
	nextID int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{tasks: make(map[int]Task), nextID: 1}
}

func (s *StubRepository) Store(_ context.Context, t Task) (Task, error) {
	t.ID = s.nextID
	s.nextID++
	s.tasks[t.ID] = t
	return t, nil
}

func (s *StubRepository) Get(_ context.Context, id int) (Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (s *StubRepository) Update(_ context.Context, t Task) (Task, error) {
	if _, ok := s.tasks[t.ID]; !ok {
		return Task{}, ErrNotFound
	}
	s.tasks[t.ID] = t
	return t, nil
}

func (s *StubRepository) Delete(_ context.Context, id int) error {
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *StubRepository) List(_ context.Context, filter Filter) ([]Task, error) {
	var result []Task
	for _, t := range s.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if !filter.From.IsZero() && t.TaskDate.Format(utils.DateLayout) < filter.From.Format(utils.DateLayout) {
			continue
		}
		if !filter.To.IsZero() && t.TaskDate.Format(utils.DateLayout) > filter.To.Format(utils.DateLayout) {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(t.Description), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].TaskDate.Equal(result[j].TaskDate) {
			return result[i].TaskDate.Before(result[j].TaskDate)
		}
		if result[i].TaskTime != result[j].TaskTime {
			return result[i].TaskTime < result[j].TaskTime
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *StubRepository) CompletedBetween(_ context.Context, from, to time.Time) ([]Task, error) {
	var result []Task
	for _, t := range s.tasks {
		if t.Status != StatusCompleted || t.CompletedAt == nil {
			continue
		}
		if t.CompletedAt.Before(from) || t.CompletedAt.After(to) {
			continue
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CompletedAt.Before(*result[j].CompletedAt)
	})
	return result, nil
}

func (s *StubRepository) CountByStatus(_ context.Context) (StatusSummary, error) {
	var summary StatusSummary
	for _, t := range s.tasks {
		switch t.Status {
		case StatusPending:
			summary.Pending++
		case StatusInProgress:
			summary.InProgress++
		case StatusCompleted:
			summary.Completed++
		case StatusCancelled:
			summary.Cancelled++
		}
		summary.Total++
	}
	return summary, nil
}

func (s *StubRepository) Cleanup() {
	s.tasks = make(map[int]Task)
	s.nextID = 1
}
