package cashbook

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/daylog/daylog/internal/utils"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	groups      map[Kind]map[int]Group
	entries     map[Kind]map[int]Entry
	nextGroupID int
	nextEntryID int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		groups: map[Kind]map[int]Group{
			KindIncome:  {},
			KindExpense: {},
		},
		entries: map[Kind]map[int]Entry{
			KindIncome:  {},
			KindExpense: {},
		},
		nextGroupID: 1,
		nextEntryID: 1,
	}
}

func (s *StubRepository) StoreGroup(_ context.Context, g Group) (Group, error) {
	for _, existing := range s.groups[g.Kind] {
		if existing.Name == g.Name {
			return Group{}, ErrDuplicateGroup
		}
	}
	g.ID = s.nextGroupID
	s.nextGroupID++
	s.groups[g.Kind][g.ID] = g
	return g, nil
}

func (s *StubRepository) GetGroup(_ context.Context, kind Kind, id int) (Group, error) {
	g, ok := s.groups[kind][id]
	if !ok {
		return Group{}, ErrGroupNotFound
	}
	return g, nil
}

func (s *StubRepository) UpdateGroup(_ context.Context, g Group) (Group, error) {
	if _, ok := s.groups[g.Kind][g.ID]; !ok {
		return Group{}, ErrGroupNotFound
	}
	s.groups[g.Kind][g.ID] = g
	return g, nil
}

func (s *StubRepository) DeleteGroup(_ context.Context, kind Kind, id int) error {
	if _, ok := s.groups[kind][id]; !ok {
		return ErrGroupNotFound
	}
	delete(s.groups[kind], id)
	return nil
}

func (s *StubRepository) ListGroups(_ context.Context, kind Kind) ([]Group, error) {
	var groups []Group
	for _, g := range s.groups[kind] {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (s *StubRepository) CountEntriesForGroup(_ context.Context, kind Kind, groupID int) (int, error) {
	count := 0
	for _, e := range s.entries[kind] {
		if e.GroupID == groupID {
			count++
		}
	}
	return count, nil
}

func (s *StubRepository) StoreEntry(_ context.Context, e Entry) (Entry, error) {
	e.ID = s.nextEntryID
	s.nextEntryID++
	if g, ok := s.groups[e.Kind][e.GroupID]; ok {
		e.GroupName = g.Name
	}
	s.entries[e.Kind][e.ID] = e
	return e, nil
}

func (s *StubRepository) GetEntry(_ context.Context, kind Kind, id int) (Entry, error) {
	e, ok := s.entries[kind][id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return e, nil
}

func (s *StubRepository) UpdateEntry(_ context.Context, e Entry) (Entry, error) {
	if _, ok := s.entries[e.Kind][e.ID]; !ok {
		return Entry{}, ErrEntryNotFound
	}
	if g, ok := s.groups[e.Kind][e.GroupID]; ok {
		e.GroupName = g.Name
	}
	s.entries[e.Kind][e.ID] = e
	return e, nil
}

func (s *StubRepository) DeleteEntry(_ context.Context, kind Kind, id int) error {
	if _, ok := s.entries[kind][id]; !ok {
		return ErrEntryNotFound
	}
	delete(s.entries[kind], id)
	return nil
}

func (s *StubRepository) ListEntries(_ context.Context, kind Kind, filter Filter) ([]Entry, error) {
	var entries []Entry
	for _, e := range s.entries[kind] {
		if !filter.From.IsZero() && utils.FormatDate(e.Date) < utils.FormatDate(filter.From) {
			continue
		}
		if !filter.To.IsZero() && utils.FormatDate(e.Date) > utils.FormatDate(filter.To) {
			continue
		}
		if filter.GroupID != nil && e.GroupID != *filter.GroupID {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(e.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(e.Notes), strings.ToLower(filter.Search)) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

func (s *StubRepository) GroupTotals(ctx context.Context, kind Kind, from, to time.Time) ([]GroupTotal, error) {
	groups, _ := s.ListGroups(ctx, kind)
	entries, _ := s.ListEntries(ctx, kind, Filter{From: from, To: to})
	totals := make([]GroupTotal, 0, len(groups))
	for _, g := range groups {
		gt := GroupTotal{GroupID: g.ID, GroupName: g.Name, Total: decimal.Zero}
		for _, e := range entries {
			if e.GroupID == g.ID {
				gt.Total = gt.Total.Add(e.Amount)
				gt.Count++
			}
		}
		totals = append(totals, gt)
	}
	return totals, nil
}

func (s *StubRepository) SumEntries(ctx context.Context, kind Kind, from, to time.Time) (decimal.Decimal, error) {
	entries, _ := s.ListEntries(ctx, kind, Filter{From: from, To: to})
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total, nil
}

func (s *StubRepository) Cleanup() {
	s.groups = map[Kind]map[int]Group{KindIncome: {}, KindExpense: {}}
	s.entries = map[Kind]map[int]Entry{KindIncome: {}, KindExpense: {}}
	s.nextGroupID = 1
	s.nextEntryID = 1
}
