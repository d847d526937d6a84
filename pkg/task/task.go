package task

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("task not found")
	ErrInvalidTime     = errors.New("invalid task time")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted || s == StatusCancelled
}

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

func (p Priority) Valid() bool {
	return p == PriorityUrgent || p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// TimeLayout is the wall-clock format for the optional task time.
const TimeLayout = "15:04"

type Task struct {
	ID            int
	Title         string
	Description   string
	Status        Status
	Priority      Priority
	TaskDate      time.Time
	TaskTime      string
	EstimatedTime *int
	EstimateUnit  string
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpen reports whether the task still needs doing.
func (t Task) IsOpen() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// IsOverdue reports whether an open task slipped past its scheduled
// date, or past its scheduled time earlier today.
func (t Task) IsOverdue(now time.Time, loc *time.Location) bool {
	if !t.IsOpen() {
		return false
	}
	today := now.In(loc)
	taskDay := time.Date(t.TaskDate.Year(), t.TaskDate.Month(), t.TaskDate.Day(), 0, 0, 0, 0, loc)
	startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	if taskDay.Before(startOfToday) {
		return true
	}
	if taskDay.Equal(startOfToday) && t.TaskTime != "" {
		at, err := time.Parse(TimeLayout, t.TaskTime)
		if err != nil {
			return false
		}
		scheduled := time.Date(today.Year(), today.Month(), today.Day(), at.Hour(), at.Minute(), 0, 0, loc)
		return scheduled.Before(today)
	}
	return false
}

// CompletionHours is the time from creation to completion, in hours.
// Returns false for tasks that never completed.
func (t Task) CompletionHours() (float64, bool) {
	if t.CompletedAt == nil {
		return 0, false
	}
	return t.CompletedAt.Sub(t.CreatedAt).Hours(), true
}

// Filter narrows List results; zero values are ignored.
type Filter struct {
	Status   *Status
	Priority *Priority
	From     time.Time
	To       time.Time
	Search   string
}

// StatusSummary counts tasks per status.
type StatusSummary struct {
	Pending    int
	InProgress int
	Completed  int
	Cancelled  int
	Total      int
}

// DayCompletion is one day of the completion report.
type DayCompletion struct {
	Date       time.Time
	Total      int
	ByPriority map[Priority]int
}

// CompletionReport covers a date range day by day.
type CompletionReport struct {
	From               time.Time
	To                 time.Time
	TotalCompleted     int
	AvgCompletionHours float64
	Days               []DayCompletion
}

// MonthlyStat is one month's completion count for a year.
type MonthlyStat struct {
	Month     int
	Completed int
}
