package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/habit"
	"github.com/daylog/daylog/pkg/subprocess"
	"github.com/daylog/daylog/pkg/task"
)

type stubHabits struct {
	habits    []habit.Habit
	completed map[int]bool
	toggled   []int
}

func (s *stubHabits) WithActiveReminder(context.Context) ([]habit.Habit, error) {
	return s.habits, nil
}

func (s *stubHabits) CompletedOn(context.Context, time.Time) (map[int]bool, error) {
	return s.completed, nil
}

func (s *stubHabits) Toggle(_ context.Context, habitID int, _ time.Time) (bool, error) {
	s.toggled = append(s.toggled, habitID)
	now := !s.completed[habitID]
	s.completed[habitID] = now
	return now, nil
}

type stubTasks struct {
	tasks []task.Task
}

func (s *stubTasks) Today(context.Context) ([]task.Task, error) {
	return s.tasks, nil
}

func (s *stubTasks) UpdateStatus(_ context.Context, id int, status task.Status) (task.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			t.Status = status
			return t, nil
		}
	}
	return task.Task{}, task.ErrNotFound
}

type stubSubProcesses struct {
	focused   []subprocess.SubProcess
	completed []int
}

func (s *stubSubProcesses) Focused(context.Context) ([]subprocess.SubProcess, error) {
	return s.focused, nil
}

func (s *stubSubProcesses) Complete(_ context.Context, id int) (subprocess.SubProcess, error) {
	for _, sp := range s.focused {
		if sp.ID == id {
			s.completed = append(s.completed, id)
			sp.Status = subprocess.StatusDone
			return sp, nil
		}
	}
	return subprocess.SubProcess{}, subprocess.ErrNotFound
}

func setup() (Service, *stubHabits, *stubTasks, *stubSubProcesses, context.Context) {
	habits := &stubHabits{
		habits: []habit.Habit{
			{ID: 1, Name: "Meditate", ReminderTime: "06:30", IsReminderActive: true},
			{ID: 2, Name: "Read", IsReminderActive: true},
		},
		completed: map[int]bool{1: true},
	}
	tasks := &stubTasks{
		tasks: []task.Task{
			{ID: 10, Title: "Ship report", Status: task.StatusPending, TaskTime: "09:00", Priority: task.PriorityHigh},
			{ID: 11, Title: "Water plants", Status: task.StatusPending},
			{ID: 12, Title: "Old chore", Status: task.StatusCompleted, TaskTime: "08:00"},
		},
	}
	subProcesses := &stubSubProcesses{
		focused: []subprocess.SubProcess{
			{ID: 20, GoalID: 1, GoalName: "Launch", Name: "Write docs", EstimatedDays: decimal.RequireFromString("1"), Status: subprocess.StatusPending, Focus: true},
		},
	}
	clock := &utils.MockClock{FixedNow: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	service := NewService(habits, tasks, subProcesses, clock, time.UTC)
	return service, habits, tasks, subProcesses, context.Background()
}

func TestTodayAssemblesAndSorts(t *testing.T) {
	service, _, _, _, ctx := setup()

	day, err := service.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", utils.FormatDate(day.Date))

	// Timed items first in clock order, untimed afterwards. The
	// completed task is dropped entirely.
	require.Len(t, day.Items, 5)
	assert.Equal(t, "Meditate", day.Items[0].Title)
	assert.Equal(t, "Ship report", day.Items[1].Title)
	assert.Equal(t, KindHabit, day.Items[2].Kind)
	assert.Equal(t, "Read", day.Items[2].Title)
	assert.Equal(t, KindSubProcess, day.Items[3].Kind)
	assert.Equal(t, KindTask, day.Items[4].Kind)
	assert.Equal(t, "Water plants", day.Items[4].Title)
}

func TestTodayCarriesCompletionAndPriority(t *testing.T) {
	service, _, _, _, ctx := setup()

	day, err := service.Today(ctx)
	require.NoError(t, err)

	byTitle := map[string]Item{}
	for _, item := range day.Items {
		byTitle[item.Title] = item
	}
	assert.True(t, byTitle["Meditate"].Completed)
	assert.False(t, byTitle["Read"].Completed)
	assert.Equal(t, "HIGH", byTitle["Ship report"].Priority)
	assert.Equal(t, "Launch", byTitle["Write docs"].Detail)
}

func TestCompleteHabitToggles(t *testing.T) {
	service, habits, _, _, ctx := setup()

	completed, err := service.CompleteHabit(ctx, 2)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = service.CompleteHabit(ctx, 2)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, []int{2, 2}, habits.toggled)
}

func TestUpdateTask(t *testing.T) {
	service, _, _, _, ctx := setup()

	updated, err := service.UpdateTask(ctx, 10, task.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, updated.Status)

	_, err = service.UpdateTask(ctx, 999, task.StatusCompleted)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestCompleteSubProcess(t *testing.T) {
	service, _, _, subProcesses, ctx := setup()

	completed, err := service.CompleteSubProcess(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, subprocess.StatusDone, completed.Status)
	assert.Equal(t, []int{20}, subProcesses.completed)

	_, err = service.CompleteSubProcess(ctx, 999)
	assert.ErrorIs(t, err, subprocess.ErrNotFound)
}
