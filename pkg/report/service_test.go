package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daylog/daylog/internal/daterange"
	"github.com/daylog/daylog/pkg/activity"
	"github.com/daylog/daylog/pkg/goal"
	"github.com/daylog/daylog/pkg/habit"
	"github.com/daylog/daylog/pkg/subprocess"
	"github.com/daylog/daylog/pkg/task"
	"github.com/daylog/daylog/pkg/timeentry"
	"github.com/daylog/daylog/pkg/workupdate"
)

type stubEntries struct {
	result timeentry.ListResult
	gaps   []timeentry.Gap
}

func (s *stubEntries) List(context.Context, *daterange.Range) (timeentry.ListResult, error) {
	return s.result, nil
}

func (s *stubEntries) Gaps(context.Context, daterange.Range) ([]timeentry.Gap, error) {
	return s.gaps, nil
}

type stubActivities struct {
	activities []activity.Activity
}

func (s *stubActivities) GetAll(context.Context, bool) ([]activity.Activity, error) {
	return s.activities, nil
}

type stubTasks struct {
	tasks []task.Task
}

func (s *stubTasks) List(context.Context, task.Filter) ([]task.Task, error) {
	return s.tasks, nil
}

type stubHabits struct {
	rows []habit.RegisterRow
}

func (s *stubHabits) Register(context.Context, time.Time, time.Time) ([]habit.RegisterRow, error) {
	return s.rows, nil
}

type stubGoals struct {
	goals []goal.Goal
}

func (s *stubGoals) List(context.Context, *goal.Status) ([]goal.Goal, error) {
	return s.goals, nil
}

type stubSubProcesses struct {
	items []subprocess.SubProcess
}

func (s *stubSubProcesses) List(context.Context, subprocess.Filter) ([]subprocess.SubProcess, error) {
	return s.items, nil
}

type stubWorkUpdates struct {
	updates []workupdate.WorkUpdate
	heads   []workupdate.HeadSummary
}

func (s *stubWorkUpdates) List(context.Context, workupdate.Filter) ([]workupdate.WorkUpdate, error) {
	return s.updates, nil
}

func (s *stubWorkUpdates) SummaryByHead(context.Context) ([]workupdate.HeadSummary, error) {
	return s.heads, nil
}

func marchRange() daterange.Range {
	return daterange.Range{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func setup() (*ServiceImpl, *stubEntries, *stubActivities) {
	entries := &stubEntries{
		result: timeentry.ListResult{
			Entries: []timeentry.TimeEntry{
				{ID: 1, ActivityID: 1, ActivityName: "Coding", DurationMinutes: 90},
				{ID: 2, ActivityID: 2, ActivityName: "Gym", DurationMinutes: 30},
			},
			TotalEntries:         2,
			TotalDurationMinutes: 120,
		},
	}
	activities := &stubActivities{
		activities: []activity.Activity{
			{ID: 1, Name: "Coding", Category: &activity.CategoryRef{ID: 7, Name: "Work", Color: "#00ff00"}},
			{ID: 2, Name: "Gym"},
		},
	}
	tasks := &stubTasks{
		tasks: []task.Task{
			{ID: 1, Title: "A", Status: task.StatusCompleted},
			{ID: 2, Title: "B", Status: task.StatusCompleted},
			{ID: 3, Title: "C", Status: task.StatusPending},
			{ID: 4, Title: "D", Status: task.StatusInProgress},
			{ID: 5, Title: "E", Status: task.StatusCancelled},
		},
	}
	habits := &stubHabits{
		rows: []habit.RegisterRow{
			{Habit: habit.Habit{ID: 1, Name: "Meditate", Frequency: habit.FrequencyDaily}, CompletedDays: []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04", "2024-03-05"}},
			{Habit: habit.Habit{ID: 2, Name: "Journal", Frequency: habit.FrequencyDaily}, CompletedDays: []string{}},
		},
	}
	goals := &stubGoals{goals: []goal.Goal{{ID: 1, Name: "Launch", Status: goal.StatusFocus}}}
	done := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC)
	subProcesses := &stubSubProcesses{
		items: []subprocess.SubProcess{
			{ID: 1, Status: subprocess.StatusDone, CompletedAt: &done},
			{ID: 2, Status: subprocess.StatusDone, CompletedAt: &outside},
			{ID: 3, Status: subprocess.StatusPending},
			{ID: 4, Status: subprocess.StatusPending},
		},
	}
	workUpdates := &stubWorkUpdates{
		updates: []workupdate.WorkUpdate{{ID: 1, Description: "Shipped"}},
		heads:   []workupdate.HeadSummary{{HeadID: 1, HeadName: "Project X", Count: 4}},
	}
	return NewService(entries, activities, tasks, habits, goals, subProcesses, workUpdates), entries, activities
}

func TestCategoryReport(t *testing.T) {
	service, _, _ := setup()

	report, err := service.CategoryReport(context.Background(), marchRange())
	require.NoError(t, err)
	assert.Equal(t, 120, report.TotalMinutes)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Work", report.Rows[0].CategoryName)
	assert.Equal(t, 75.0, report.Rows[0].Percent)
	assert.Equal(t, "Uncategorized", report.Rows[1].CategoryName)
	assert.Equal(t, 25.0, report.Rows[1].Percent)
}

func TestActivityReport(t *testing.T) {
	service, _, _ := setup()

	report, err := service.ActivityReport(context.Background(), marchRange())
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Coding", report.Rows[0].ActivityName)
	assert.Equal(t, 90, report.Rows[0].TotalMinutes)
}

func TestTaskDashCountsByStatus(t *testing.T) {
	service, _, _ := setup()

	dash, err := service.TaskDash(context.Background(), marchRange())
	require.NoError(t, err)
	assert.Equal(t, 5, dash.Total)
	assert.Equal(t, 2, dash.Completed)
	assert.Equal(t, 1, dash.Pending)
	assert.Equal(t, 1, dash.InProgress)
	assert.Equal(t, 1, dash.Cancelled)
}

func TestHabitDashRates(t *testing.T) {
	service, _, _ := setup()

	dash, err := service.HabitDash(context.Background(), marchRange())
	require.NoError(t, err)
	require.Len(t, dash.Rows, 2)
	// 5 of 10 days completed.
	assert.Equal(t, 5, dash.Rows[0].CompletedCount)
	assert.Equal(t, 5, dash.Rows[0].PendingCount)
	assert.Equal(t, 50.0, dash.Rows[0].Rate)
	assert.Equal(t, 0, dash.Rows[1].CompletedCount)
	assert.Equal(t, 0.0, dash.Rows[1].Rate)
}

func TestGoalDash(t *testing.T) {
	service, _, _ := setup()

	dash, err := service.GoalDash(context.Background(), marchRange())
	require.NoError(t, err)
	require.Len(t, dash.FocusGoals, 1)
	assert.Equal(t, 4, dash.TotalSubProcesses)
	assert.Equal(t, 2, dash.CompletedSubProcesses)
	assert.Equal(t, 1, dash.CompletedInRange)
	assert.Equal(t, 50.0, dash.CompletionPercent)
}

func TestDashboardComposes(t *testing.T) {
	service, _, _ := setup()

	dashboard, err := service.Dashboard(context.Background(), marchRange())
	require.NoError(t, err)
	assert.Equal(t, 120, dashboard.Time.TotalMinutes)
	assert.Equal(t, 5, dashboard.Tasks.Total)
	assert.Len(t, dashboard.Habits.Rows, 2)
	assert.Equal(t, 1, dashboard.WorkUpdates.TotalUpdates)
	require.Len(t, dashboard.WorkUpdates.Heads, 1)
	assert.Equal(t, "Project X", dashboard.WorkUpdates.Heads[0].HeadName)
}
