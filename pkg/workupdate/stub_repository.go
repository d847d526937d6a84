package workupdate

import (
	"context"
	"sort"
	"strings"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	updates map[int]WorkUpdate
	nextID  int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{updates: map[int]WorkUpdate{}, nextID: 1}
}

func (s *StubRepository) Store(_ context.Context, wu WorkUpdate) (WorkUpdate, error) {
	wu.ID = s.nextID
	s.nextID++
	s.updates[wu.ID] = wu
	return wu, nil
}

func (s *StubRepository) Get(_ context.Context, id int) (WorkUpdate, error) {
	wu, ok := s.updates[id]
	if !ok {
		return WorkUpdate{}, ErrNotFound
	}
	return wu, nil
}

func (s *StubRepository) Update(_ context.Context, wu WorkUpdate) (WorkUpdate, error) {
	if _, ok := s.updates[wu.ID]; !ok {
		return WorkUpdate{}, ErrNotFound
	}
	s.updates[wu.ID] = wu
	return wu, nil
}

func (s *StubRepository) Delete(_ context.Context, id int) error {
	if _, ok := s.updates[id]; !ok {
		return ErrNotFound
	}
	delete(s.updates, id)
	return nil
}

func (s *StubRepository) List(_ context.Context, filter Filter) ([]WorkUpdate, error) {
	var result []WorkUpdate
	for _, wu := range s.updates {
		if !filter.From.IsZero() && wu.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && wu.Date.After(filter.To) {
			continue
		}
		if filter.HeadID != nil && (wu.HeadID == nil || *wu.HeadID != *filter.HeadID) {
			continue
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(wu.Description), q) &&
				!strings.Contains(strings.ToLower(wu.HeadName), q) {
				continue
			}
		}
		result = append(result, wu)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *StubRepository) SummaryByHead(_ context.Context) ([]HeadSummary, error) {
	byHead := map[int]*HeadSummary{}
	for _, wu := range s.updates {
		if wu.HeadID == nil {
			continue
		}
		sum, ok := byHead[*wu.HeadID]
		if !ok {
			sum = &HeadSummary{HeadID: *wu.HeadID, HeadName: wu.HeadName}
			byHead[*wu.HeadID] = sum
		}
		sum.Count++
		if wu.Date.After(sum.LastDate) {
			sum.LastDate = wu.Date
		}
	}
	var result []HeadSummary
	for _, sum := range byHead {
		result = append(result, *sum)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result, nil
}

func (s *StubRepository) MonthlyCounts(_ context.Context, year int) ([]MonthlyCount, error) {
	counts := make([]MonthlyCount, 12)
	for i := range counts {
		counts[i].Month = i + 1
	}
	for _, wu := range s.updates {
		if wu.Date.Year() == year {
			counts[wu.Date.Month()-1].Count++
		}
	}
	return counts, nil
}

func (s *StubRepository) Cleanup() {
	s.updates = map[int]WorkUpdate{}
	s.nextID = 1
}
