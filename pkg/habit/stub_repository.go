package habit

import (
	"context"
	"sort"
	"time"

	"github.com/daylog/daylog/internal/utils"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	habits    map[int]Habit
	logs      map[int]Log
	nextID    int
	nextLogID int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		habits:    make(map[int]Habit),
		logs:      make(map[int]Log),
		nextID:    1,
		nextLogID: 1,
	}
}

func (s *StubRepository) Store(_ context.Context, h Habit) (Habit, error) {
	h.ID = s.nextID
	s.nextID++
	s.habits[h.ID] = h
	return h, nil
}

func (s *StubRepository) Get(_ context.Context, id int) (Habit, error) {
	h, ok := s.habits[id]
	if !ok {
		return Habit{}, ErrNotFound
	}
	return h, nil
}

func (s *StubRepository) Update(_ context.Context, h Habit) (Habit, error) {
	if _, ok := s.habits[h.ID]; !ok {
		return Habit{}, ErrNotFound
	}
	s.habits[h.ID] = h
	return h, nil
}

func (s *StubRepository) Delete(_ context.Context, id int) error {
	if _, ok := s.habits[id]; !ok {
		return ErrNotFound
	}
	delete(s.habits, id)
	return nil
}

func (s *StubRepository) List(_ context.Context) ([]Habit, error) {
	var habits []Habit
	for _, h := range s.habits {
		habits = append(habits, h)
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].Name < habits[j].Name })
	return habits, nil
}

func (s *StubRepository) ListWithActiveReminder(_ context.Context) ([]Habit, error) {
	var habits []Habit
	for _, h := range s.habits {
		if h.IsReminderActive {
			habits = append(habits, h)
		}
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].ReminderTime < habits[j].ReminderTime })
	return habits, nil
}

func (s *StubRepository) StoreLog(_ context.Context, l Log) (Log, error) {
	l.ID = s.nextLogID
	s.nextLogID++
	s.logs[l.ID] = l
	return l, nil
}

func (s *StubRepository) GetLog(_ context.Context, id int) (Log, error) {
	l, ok := s.logs[id]
	if !ok {
		return Log{}, ErrLogNotFound
	}
	return l, nil
}

func (s *StubRepository) UpdateLog(_ context.Context, l Log) (Log, error) {
	if _, ok := s.logs[l.ID]; !ok {
		return Log{}, ErrLogNotFound
	}
	s.logs[l.ID] = l
	return l, nil
}

func (s *StubRepository) DeleteLogByID(_ context.Context, id int) error {
	if _, ok := s.logs[id]; !ok {
		return ErrLogNotFound
	}
	delete(s.logs, id)
	return nil
}

func (s *StubRepository) DeleteLog(_ context.Context, habitID int, date time.Time) error {
	for id, l := range s.logs {
		if l.HabitID == habitID && utils.FormatDate(l.LogDate) == utils.FormatDate(date) {
			delete(s.logs, id)
			return nil
		}
	}
	return ErrLogNotFound
}

func (s *StubRepository) FindLog(_ context.Context, habitID int, date time.Time) (Log, error) {
	for _, l := range s.logs {
		if l.HabitID == habitID && utils.FormatDate(l.LogDate) == utils.FormatDate(date) {
			return l, nil
		}
	}
	return Log{}, ErrLogNotFound
}

func (s *StubRepository) LogsForHabit(_ context.Context, habitID int) ([]Log, error) {
	var logs []Log
	for _, l := range s.logs {
		if l.HabitID == habitID {
			logs = append(logs, l)
		}
	}
	sortLogsDesc(logs)
	return logs, nil
}

func (s *StubRepository) LogsBetween(_ context.Context, habitID int, from, to time.Time) ([]Log, error) {
	var logs []Log
	for _, l := range s.logs {
		if l.HabitID == habitID && inRange(l.LogDate, from, to) {
			logs = append(logs, l)
		}
	}
	sortLogsDesc(logs)
	return logs, nil
}

func (s *StubRepository) AllLogs(_ context.Context) ([]Log, error) {
	var logs []Log
	for _, l := range s.logs {
		logs = append(logs, l)
	}
	sortLogsDesc(logs)
	return logs, nil
}

func (s *StubRepository) AllLogsBetween(_ context.Context, from, to time.Time) ([]Log, error) {
	var logs []Log
	for _, l := range s.logs {
		if inRange(l.LogDate, from, to) {
			logs = append(logs, l)
		}
	}
	sortLogsDesc(logs)
	return logs, nil
}

func (s *StubRepository) Cleanup() {
	s.habits = make(map[int]Habit)
	s.logs = make(map[int]Log)
	s.nextID = 1
	s.nextLogID = 1
}

func inRange(date, from, to time.Time) bool {
	day := utils.FormatDate(date)
	return day >= utils.FormatDate(from) && day <= utils.FormatDate(to)
}

func sortLogsDesc(logs []Log) {
	sort.Slice(logs, func(i, j int) bool { return logs[i].LogDate.After(logs[j].LogDate) })
}
