package timeentry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"exact hour", start.Add(time.Hour), 60},
		{"partial minute truncated", start.Add(90*time.Second + 59*time.Second), 2},
		{"under one minute", start.Add(59 * time.Second), 0},
		{"exactly one minute", start.Add(time.Minute), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(start, tt.end))
		})
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2024, time.March, 1, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"contained", at(9, 0), at(10, 0), at(9, 30), at(9, 45), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"partial overlap at end", at(9, 0), at(10, 0), at(9, 45), at(10, 30), true},
		{"partial overlap at start", at(9, 0), at(10, 0), at(8, 30), at(9, 15), true},
		{"touching endpoints do not overlap", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching endpoints reversed", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(11, 0), at(12, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestFindGaps(t *testing.T) {
	rangeStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2024, time.March, 1, 23, 59, 59, 0, time.UTC)

	closed := func(name string, start, end time.Time) TimeEntry {
		return TimeEntry{ActivityName: name, StartTime: start, EndTime: &end}
	}

	t.Run("no entries returns whole range as one gap", func(t *testing.T) {
		gaps := FindGaps(nil, rangeStart, rangeEnd)
		assert.Len(t, gaps, 1)
		assert.Equal(t, rangeStart, gaps[0].Start)
		assert.Equal(t, rangeEnd, gaps[0].End)
		assert.Equal(t, 1439, gaps[0].DurationMinutes)
	})

	t.Run("gaps before, between and after entries", func(t *testing.T) {
		first := closed("Coding", rangeStart.Add(9*time.Hour), rangeStart.Add(10*time.Hour))
		second := closed("Reading", rangeStart.Add(11*time.Hour), rangeStart.Add(12*time.Hour))
		gaps := FindGaps([]TimeEntry{first, second}, rangeStart, rangeEnd)

		assert.Len(t, gaps, 3)

		assert.Equal(t, rangeStart, gaps[0].Start)
		assert.Equal(t, first.StartTime, gaps[0].End)
		assert.Equal(t, "", gaps[0].PreviousActivity)
		assert.Equal(t, "Coding", gaps[0].NextActivity)

		assert.Equal(t, *first.EndTime, gaps[1].Start)
		assert.Equal(t, second.StartTime, gaps[1].End)
		assert.Equal(t, "Coding", gaps[1].PreviousActivity)
		assert.Equal(t, "Reading", gaps[1].NextActivity)
		assert.Equal(t, 60, gaps[1].DurationMinutes)

		assert.Equal(t, *second.EndTime, gaps[2].Start)
		assert.Equal(t, rangeEnd, gaps[2].End)
		assert.Equal(t, "Reading", gaps[2].PreviousActivity)
		assert.Equal(t, "", gaps[2].NextActivity)
	})

	t.Run("back to back entries yield only the tail gap", func(t *testing.T) {
		first := closed("A", rangeStart, rangeStart.Add(time.Hour))
		second := closed("B", rangeStart.Add(time.Hour), rangeStart.Add(2*time.Hour))
		gaps := FindGaps([]TimeEntry{first, second}, rangeStart, rangeEnd)

		assert.Len(t, gaps, 1)
		assert.Equal(t, *second.EndTime, gaps[0].Start)
		assert.Equal(t, rangeEnd, gaps[0].End)
	})

	t.Run("sub-minute gap is ignored", func(t *testing.T) {
		first := closed("A", rangeStart, rangeStart.Add(time.Hour))
		second := closed("B", rangeStart.Add(time.Hour).Add(30*time.Second), rangeEnd)
		gaps := FindGaps([]TimeEntry{first, second}, rangeStart, rangeEnd)
		assert.Empty(t, gaps)
	})
}
