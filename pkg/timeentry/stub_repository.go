package timeentry

import (
	"context"
	"sort"
	"time"
)

type StubRepository struct {
	nextId int
	data   map[int]TimeEntry
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]TimeEntry{}}
}

func (s *StubRepository) Store(ctx context.Context, entry TimeEntry) (int, error) {
	s.nextId++
	entry.ID = s.nextId
	s.data[entry.ID] = entry
	return entry.ID, nil
}

func (s *StubRepository) Get(ctx context.Context, id int) (TimeEntry, error) {
	entry, ok := s.data[id]
	if !ok {
		return TimeEntry{}, ErrNotFound
	}
	return entry, nil
}

func (s *StubRepository) Update(ctx context.Context, entry TimeEntry) (bool, error) {
	if _, ok := s.data[entry.ID]; !ok {
		return false, nil
	}
	s.data[entry.ID] = entry
	return true, nil
}

func (s *StubRepository) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepository) List(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if !from.IsZero() && entry.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && entry.StartTime.After(to) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime.After(entries[j].StartTime) })
	return entries, nil
}

func (s *StubRepository) FindOpen(ctx context.Context) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if entry.EndTime == nil {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime.After(entries[j].StartTime) })
	return entries, nil
}

func (s *StubRepository) FindClosedBetween(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if entry.EndTime == nil || entry.StartTime.Before(from) || entry.StartTime.After(to) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime.Before(entries[j].StartTime) })
	return entries, nil
}

func (s *StubRepository) FindClosedForActivity(ctx context.Context, activityID int, excludeID int) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if entry.EndTime == nil || entry.ActivityID != activityID || entry.ID == excludeID {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime.Before(entries[j].StartTime) })
	return entries, nil
}

func (s *StubRepository) FindRecentlyFinished(ctx context.Context, since time.Time, limit int) ([]TimeEntry, error) {
	var entries []TimeEntry
	for _, entry := range s.data {
		if entry.EndTime == nil || entry.EndTime.Before(since) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EndTime.After(*entries[j].EndTime) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]TimeEntry{}
	s.nextId = 0
}
