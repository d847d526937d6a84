package report

import (
	"context"
	"time"

	"github.com/daylog/daylog/internal/daterange"
	"github.com/daylog/daylog/pkg/activity"
	"github.com/daylog/daylog/pkg/goal"
	"github.com/daylog/daylog/pkg/habit"
	"github.com/daylog/daylog/pkg/subprocess"
	"github.com/daylog/daylog/pkg/task"
	"github.com/daylog/daylog/pkg/timeentry"
	"github.com/daylog/daylog/pkg/workupdate"
)

type TimeEntryProvider interface {
	List(ctx context.Context, rng *daterange.Range) (timeentry.ListResult, error)
	Gaps(ctx context.Context, rng daterange.Range) ([]timeentry.Gap, error)
}

type ActivityProvider interface {
	GetAll(ctx context.Context, activeOnly bool) ([]activity.Activity, error)
}

type TaskProvider interface {
	List(ctx context.Context, filter task.Filter) ([]task.Task, error)
}

type HabitProvider interface {
	Register(ctx context.Context, from, to time.Time) ([]habit.RegisterRow, error)
}

type GoalProvider interface {
	List(ctx context.Context, status *goal.Status) ([]goal.Goal, error)
}

type SubProcessProvider interface {
	List(ctx context.Context, filter subprocess.Filter) ([]subprocess.SubProcess, error)
}

type WorkUpdateProvider interface {
	List(ctx context.Context, filter workupdate.Filter) ([]workupdate.WorkUpdate, error)
	SummaryByHead(ctx context.Context) ([]workupdate.HeadSummary, error)
}

// TimeDash summarizes tracked time over a range.
type TimeDash struct {
	From         time.Time
	To           time.Time
	TotalMinutes int
	TotalEntries int
	Categories   []CategoryRow
	Activities   []ActivityRow
}

// TaskDash counts tasks touching a range plus the tasks themselves.
type TaskDash struct {
	From       time.Time
	To         time.Time
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Cancelled  int
	Tasks      []task.Task
}

// HabitDashRow is one habit's completion count over a range.
type HabitDashRow struct {
	Habit          habit.Habit
	CompletedCount int
	PendingCount   int
	Rate           float64
}

type HabitDash struct {
	From time.Time
	To   time.Time
	Rows []HabitDashRow
}

// GoalDash summarizes sub-process completion plus the focus goals.
type GoalDash struct {
	From                  time.Time
	To                    time.Time
	FocusGoals            []goal.Goal
	TotalSubProcesses     int
	CompletedSubProcesses int
	CompletedInRange      int
	CompletionPercent     float64
}

type WorkDash struct {
	From         time.Time
	To           time.Time
	TotalUpdates int
	Heads        []workupdate.HeadSummary
	Updates      []workupdate.WorkUpdate
}

// Dashboard is the consolidated view over one range.
type Dashboard struct {
	From        time.Time
	To          time.Time
	Time        TimeDash
	Tasks       TaskDash
	Habits      HabitDash
	Goals       GoalDash
	WorkUpdates WorkDash
}

type Service interface {
	CategoryReport(ctx context.Context, rng daterange.Range) (CategoryReport, error)
	ActivityReport(ctx context.Context, rng daterange.Range) (ActivityReport, error)
	Gaps(ctx context.Context, rng daterange.Range) ([]timeentry.Gap, error)
	TimeDash(ctx context.Context, rng daterange.Range) (TimeDash, error)
	TaskDash(ctx context.Context, rng daterange.Range) (TaskDash, error)
	HabitDash(ctx context.Context, rng daterange.Range) (HabitDash, error)
	GoalDash(ctx context.Context, rng daterange.Range) (GoalDash, error)
	WorkDash(ctx context.Context, rng daterange.Range) (WorkDash, error)
	Dashboard(ctx context.Context, rng daterange.Range) (Dashboard, error)
}

type ServiceImpl struct {
	entries      TimeEntryProvider
	activities   ActivityProvider
	tasks        TaskProvider
	habits       HabitProvider
	goals        GoalProvider
	subProcesses SubProcessProvider
	workUpdates  WorkUpdateProvider
}

func NewService(entries TimeEntryProvider, activities ActivityProvider, tasks TaskProvider,
	habits HabitProvider, goals GoalProvider, subProcesses SubProcessProvider,
	workUpdates WorkUpdateProvider) *ServiceImpl {
	return &ServiceImpl{
		entries:      entries,
		activities:   activities,
		tasks:        tasks,
		habits:       habits,
		goals:        goals,
		subProcesses: subProcesses,
		workUpdates:  workUpdates,
	}
}

func (s *ServiceImpl) CategoryReport(ctx context.Context, rng daterange.Range) (CategoryReport, error) {
	result, err := s.entries.List(ctx, &rng)
	if err != nil {
		return CategoryReport{}, err
	}
	categoryOf, err := s.categoryLookup(ctx)
	if err != nil {
		return CategoryReport{}, err
	}
	return CategoryReport{
		From:         rng.Start,
		To:           rng.End,
		TotalMinutes: result.TotalDurationMinutes,
		Rows:         GroupByCategory(result.Entries, categoryOf),
	}, nil
}

func (s *ServiceImpl) ActivityReport(ctx context.Context, rng daterange.Range) (ActivityReport, error) {
	result, err := s.entries.List(ctx, &rng)
	if err != nil {
		return ActivityReport{}, err
	}
	return ActivityReport{
		From:         rng.Start,
		To:           rng.End,
		TotalMinutes: result.TotalDurationMinutes,
		Rows:         GroupByActivity(result.Entries),
	}, nil
}

func (s *ServiceImpl) Gaps(ctx context.Context, rng daterange.Range) ([]timeentry.Gap, error) {
	return s.entries.Gaps(ctx, rng)
}

func (s *ServiceImpl) TimeDash(ctx context.Context, rng daterange.Range) (TimeDash, error) {
	result, err := s.entries.List(ctx, &rng)
	if err != nil {
		return TimeDash{}, err
	}
	categoryOf, err := s.categoryLookup(ctx)
	if err != nil {
		return TimeDash{}, err
	}
	return TimeDash{
		From:         rng.Start,
		To:           rng.End,
		TotalMinutes: result.TotalDurationMinutes,
		TotalEntries: result.TotalEntries,
		Categories:   GroupByCategory(result.Entries, categoryOf),
		Activities:   GroupByActivity(result.Entries),
	}, nil
}

func (s *ServiceImpl) TaskDash(ctx context.Context, rng daterange.Range) (TaskDash, error) {
	tasks, err := s.tasks.List(ctx, task.Filter{From: rng.Start, To: rng.End})
	if err != nil {
		return TaskDash{}, err
	}
	dash := TaskDash{From: rng.Start, To: rng.End, Tasks: tasks, Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusPending:
			dash.Pending++
		case task.StatusInProgress:
			dash.InProgress++
		case task.StatusCompleted:
			dash.Completed++
		case task.StatusCancelled:
			dash.Cancelled++
		}
	}
	return dash, nil
}

func (s *ServiceImpl) HabitDash(ctx context.Context, rng daterange.Range) (HabitDash, error) {
	rows, err := s.habits.Register(ctx, rng.Start, rng.End)
	if err != nil {
		return HabitDash{}, err
	}
	days := len(rng.Days())
	dash := HabitDash{From: rng.Start, To: rng.End, Rows: make([]HabitDashRow, 0, len(rows))}
	for _, row := range rows {
		completed := len(row.CompletedDays)
		pending := days - completed
		if pending < 0 {
			pending = 0
		}
		dash.Rows = append(dash.Rows, HabitDashRow{
			Habit:          row.Habit,
			CompletedCount: completed,
			PendingCount:   pending,
			Rate:           Percent(completed, days),
		})
	}
	return dash, nil
}

func (s *ServiceImpl) GoalDash(ctx context.Context, rng daterange.Range) (GoalDash, error) {
	focus := goal.StatusFocus
	focusGoals, err := s.goals.List(ctx, &focus)
	if err != nil {
		return GoalDash{}, err
	}
	subProcesses, err := s.subProcesses.List(ctx, subprocess.Filter{})
	if err != nil {
		return GoalDash{}, err
	}
	dash := GoalDash{From: rng.Start, To: rng.End, FocusGoals: focusGoals}
	for _, sp := range subProcesses {
		dash.TotalSubProcesses++
		if sp.Status != subprocess.StatusDone {
			continue
		}
		dash.CompletedSubProcesses++
		if sp.CompletedAt != nil && !sp.CompletedAt.Before(rng.StartOfDay()) && !sp.CompletedAt.After(rng.EndOfDay()) {
			dash.CompletedInRange++
		}
	}
	dash.CompletionPercent = Percent(dash.CompletedSubProcesses, dash.TotalSubProcesses)
	return dash, nil
}

func (s *ServiceImpl) WorkDash(ctx context.Context, rng daterange.Range) (WorkDash, error) {
	updates, err := s.workUpdates.List(ctx, workupdate.Filter{From: rng.Start, To: rng.End})
	if err != nil {
		return WorkDash{}, err
	}
	heads, err := s.workUpdates.SummaryByHead(ctx)
	if err != nil {
		return WorkDash{}, err
	}
	return WorkDash{
		From:         rng.Start,
		To:           rng.End,
		TotalUpdates: len(updates),
		Heads:        heads,
		Updates:      updates,
	}, nil
}

func (s *ServiceImpl) Dashboard(ctx context.Context, rng daterange.Range) (Dashboard, error) {
	timeDash, err := s.TimeDash(ctx, rng)
	if err != nil {
		return Dashboard{}, err
	}
	taskDash, err := s.TaskDash(ctx, rng)
	if err != nil {
		return Dashboard{}, err
	}
	habitDash, err := s.HabitDash(ctx, rng)
	if err != nil {
		return Dashboard{}, err
	}
	goalDash, err := s.GoalDash(ctx, rng)
	if err != nil {
		return Dashboard{}, err
	}
	workDash, err := s.WorkDash(ctx, rng)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		From:        rng.Start,
		To:          rng.End,
		Time:        timeDash,
		Tasks:       taskDash,
		Habits:      habitDash,
		Goals:       goalDash,
		WorkUpdates: workDash,
	}, nil
}

func (s *ServiceImpl) categoryLookup(ctx context.Context) (func(activityID int) (int, string, string), error) {
	activities, err := s.activities.GetAll(ctx, false)
	if err != nil {
		return nil, err
	}
	byActivity := make(map[int]*activity.CategoryRef, len(activities))
	for _, a := range activities {
		byActivity[a.ID] = a.Category
	}
	return func(activityID int) (int, string, string) {
		ref, ok := byActivity[activityID]
		if !ok || ref == nil {
			return 0, "", ""
		}
		return ref.ID, ref.Name, ref.Color
	}, nil
}
