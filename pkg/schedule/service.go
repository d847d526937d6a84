package schedule

import (
	"context"
	"time"

	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/habit"
	"github.com/daylog/daylog/pkg/subprocess"
	"github.com/daylog/daylog/pkg/task"
)

// HabitProvider is the slice of the habit service the daily schedule
// needs.
type HabitProvider interface {
	WithActiveReminder(ctx context.Context) ([]habit.Habit, error)
	CompletedOn(ctx context.Context, date time.Time) (map[int]bool, error)
	Toggle(ctx context.Context, habitID int, date time.Time) (bool, error)
}

type TaskProvider interface {
	Today(ctx context.Context) ([]task.Task, error)
	UpdateStatus(ctx context.Context, id int, status task.Status) (task.Task, error)
}

type SubProcessProvider interface {
	Focused(ctx context.Context) ([]subprocess.SubProcess, error)
	Complete(ctx context.Context, id int) (subprocess.SubProcess, error)
}

type Service interface {
	Today(ctx context.Context) (Day, error)
	ForDate(ctx context.Context, date time.Time) (Day, error)
	CompleteHabit(ctx context.Context, habitID int) (bool, error)
	UpdateTask(ctx context.Context, taskID int, status task.Status) (task.Task, error)
	CompleteSubProcess(ctx context.Context, subProcessID int) (subprocess.SubProcess, error)
}

type ServiceImpl struct {
	habits       HabitProvider
	tasks        TaskProvider
	subProcesses SubProcessProvider
	clock        utils.Clock
	loc          *time.Location
}

func NewService(habits HabitProvider, tasks TaskProvider, subProcesses SubProcessProvider,
	clock utils.Clock, loc *time.Location) *ServiceImpl {
	return &ServiceImpl{
		habits:       habits,
		tasks:        tasks,
		subProcesses: subProcesses,
		clock:        clock,
		loc:          loc,
	}
}

func (s *ServiceImpl) Today(ctx context.Context) (Day, error) {
	return s.ForDate(ctx, s.clock.Now().In(s.loc))
}

// ForDate assembles reminder-active habits, today's open tasks and
// focused pending sub-processes into one timed list.
func (s *ServiceImpl) ForDate(ctx context.Context, date time.Time) (Day, error) {
	day := Day{Date: date, Items: []Item{}}

	habits, err := s.habits.WithActiveReminder(ctx)
	if err != nil {
		return Day{}, err
	}
	completed, err := s.habits.CompletedOn(ctx, date)
	if err != nil {
		return Day{}, err
	}
	for _, h := range habits {
		day.Items = append(day.Items, Item{
			Kind:      KindHabit,
			RefID:     h.ID,
			Title:     h.Name,
			Detail:    h.Description,
			TimeOfDay: h.ReminderTime,
			Completed: completed[h.ID],
		})
	}

	tasks, err := s.tasks.Today(ctx)
	if err != nil {
		return Day{}, err
	}
	for _, t := range tasks {
		if !t.IsOpen() {
			continue
		}
		day.Items = append(day.Items, Item{
			Kind:      KindTask,
			RefID:     t.ID,
			Title:     t.Title,
			Detail:    t.Description,
			TimeOfDay: t.TaskTime,
			Priority:  string(t.Priority),
		})
	}

	subProcesses, err := s.subProcesses.Focused(ctx)
	if err != nil {
		return Day{}, err
	}
	for _, sp := range subProcesses {
		day.Items = append(day.Items, Item{
			Kind:   KindSubProcess,
			RefID:  sp.ID,
			Title:  sp.Name,
			Detail: sp.GoalName,
		})
	}

	SortItems(day.Items)
	return day, nil
}

// CompleteHabit toggles today's log for the habit and reports the new
// completed state.
func (s *ServiceImpl) CompleteHabit(ctx context.Context, habitID int) (bool, error) {
	return s.habits.Toggle(ctx, habitID, s.clock.Now().In(s.loc))
}

func (s *ServiceImpl) UpdateTask(ctx context.Context, taskID int, status task.Status) (task.Task, error) {
	return s.tasks.UpdateStatus(ctx, taskID, status)
}

func (s *ServiceImpl) CompleteSubProcess(ctx context.Context, subProcessID int) (subprocess.SubProcess, error) {
	return s.subProcesses.Complete(ctx, subProcessID)
}
