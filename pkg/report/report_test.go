package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daylog/daylog/pkg/timeentry"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name  string
		part  int
		total int
		want  float64
	}{
		{"zero total", 10, 0, 0},
		{"zero part", 0, 120, 0},
		{"three quarters", 90, 120, 75.0},
		{"one quarter", 30, 120, 25.0},
		{"rounds to one decimal", 1, 3, 33.3},
		{"rounds up", 2, 3, 66.7},
		{"full", 120, 120, 100.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.part, tt.total))
		})
	}
}

func TestGroupByActivitySortsByTotalDescending(t *testing.T) {
	entries := []timeentry.TimeEntry{
		{ID: 1, ActivityID: 1, ActivityName: "Reading", DurationMinutes: 30},
		{ID: 2, ActivityID: 2, ActivityName: "Coding", DurationMinutes: 60},
		{ID: 3, ActivityID: 1, ActivityName: "Reading", DurationMinutes: 15},
		{ID: 4, ActivityID: 3, ActivityName: "Gym", DurationMinutes: 45},
	}

	rows := GroupByActivity(entries)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Coding", rows[0].ActivityName)
	assert.Equal(t, 60, rows[0].TotalMinutes)
	// Reading and Gym tie at 45 minutes; the tie breaks by name ascending.
	assert.Equal(t, "Gym", rows[1].ActivityName)
	assert.Equal(t, 45, rows[1].TotalMinutes)
	assert.Equal(t, "Reading", rows[2].ActivityName)
	assert.Equal(t, 2, rows[2].EntryCount)
	assert.Equal(t, 40.0, rows[0].Percent)
	assert.Equal(t, 30.0, rows[1].Percent)
}

func TestGroupByActivityEmpty(t *testing.T) {
	assert.Empty(t, GroupByActivity(nil))
}

func TestGroupByCategoryBucketsUncategorized(t *testing.T) {
	entries := []timeentry.TimeEntry{
		{ID: 1, ActivityID: 1, DurationMinutes: 90},
		{ID: 2, ActivityID: 2, DurationMinutes: 30},
		{ID: 3, ActivityID: 3, DurationMinutes: 60},
	}
	categoryOf := func(activityID int) (int, string, string) {
		if activityID == 3 {
			return 0, "", ""
		}
		return 5, "Deep Work", "#ff0000"
	}

	rows := GroupByCategory(entries, categoryOf)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Deep Work", rows[0].CategoryName)
	assert.Equal(t, 120, rows[0].TotalMinutes)
	assert.Equal(t, 66.7, rows[0].Percent)
	assert.Len(t, rows[0].Entries, 2)
	assert.Equal(t, "Uncategorized", rows[1].CategoryName)
	assert.Equal(t, 0, rows[1].CategoryID)
	assert.Equal(t, 33.3, rows[1].Percent)
}
