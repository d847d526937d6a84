package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTask_IsOverdue(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, loc)

	tests := []struct {
		name    string
		task    Task
		overdue bool
	}{
		{
			name:    "pending task from yesterday",
			task:    Task{Status: StatusPending, TaskDate: time.Date(2024, 3, 14, 0, 0, 0, 0, loc)},
			overdue: true,
		},
		{
			name:    "pending task for tomorrow",
			task:    Task{Status: StatusPending, TaskDate: time.Date(2024, 3, 16, 0, 0, 0, 0, loc)},
			overdue: false,
		},
		{
			name:    "today with time already past",
			task:    Task{Status: StatusInProgress, TaskDate: time.Date(2024, 3, 15, 0, 0, 0, 0, loc), TaskTime: "09:00"},
			overdue: true,
		},
		{
			name:    "today with time still ahead",
			task:    Task{Status: StatusPending, TaskDate: time.Date(2024, 3, 15, 0, 0, 0, 0, loc), TaskTime: "18:00"},
			overdue: false,
		},
		{
			name:    "today without a time",
			task:    Task{Status: StatusPending, TaskDate: time.Date(2024, 3, 15, 0, 0, 0, 0, loc)},
			overdue: false,
		},
		{
			name:    "completed task from last week",
			task:    Task{Status: StatusCompleted, TaskDate: time.Date(2024, 3, 8, 0, 0, 0, 0, loc)},
			overdue: false,
		},
		{
			name:    "cancelled task from yesterday",
			task:    Task{Status: StatusCancelled, TaskDate: time.Date(2024, 3, 14, 0, 0, 0, 0, loc)},
			overdue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overdue, tt.task.IsOverdue(now, loc))
		})
	}
}

func TestTask_CompletionHours(t *testing.T) {
	created := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	completed := created.Add(90 * time.Minute)

	done := Task{CreatedAt: created, CompletedAt: &completed}
	hours, ok := done.CompletionHours()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, hours, 0.001)

	open := Task{CreatedAt: created}
	_, ok = open.CompletionHours()
	assert.False(t, ok)
}
