package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func logsOn(dates ...string) []Log {
	logs := make([]Log, 0, len(dates))
	for _, d := range dates {
		logs = append(logs, Log{LogDate: day(d)})
	}
	return logs
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name        string
		completions int
		frequency   Frequency
		windowDays  int
		want        float64
	}{
		{"daily habit fully kept", 7, FrequencyDaily, 7, 100},
		{"daily habit half kept", 15, FrequencyDaily, 30, 50},
		{"daily habit rounded", 1, FrequencyDaily, 3, 33.3},
		{"weekly habit once in a week", 1, FrequencyWeekly, 7, 100},
		{"weekly habit over-performed caps at 100", 3, FrequencyWeekly, 7, 100},
		{"weekly expected uses whole weeks", 4, FrequencyWeekly, 30, 100},
		{"weekly window under a week expects nothing", 1, FrequencyWeekly, 6, 0},
		{"monthly habit once in thirty days", 1, FrequencyMonthly, 30, 100},
		{"monthly window under thirty days expects nothing", 2, FrequencyMonthly, 29, 0},
		{"zero window", 5, FrequencyDaily, 0, 0},
		{"no completions", 0, FrequencyDaily, 7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CompletionRate(tt.completions, tt.frequency, tt.windowDays), 0.001)
		})
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		logs []Log
		want int
	}{
		{"no logs", nil, 0},
		{"single log", logsOn("2024-03-15"), 1},
		{"three consecutive days", logsOn("2024-03-15", "2024-03-14", "2024-03-13"), 3},
		{"gap breaks streak", logsOn("2024-03-15", "2024-03-13"), 1},
		{"streak anchored at most recent log, not today", logsOn("2024-03-13", "2024-03-12"), 2},
		{"old pair still a streak", logsOn("2024-01-02", "2024-01-01"), 2},
		{"unsorted input", logsOn("2024-03-13", "2024-03-15", "2024-03-14"), 3},
		{"duplicate dates counted once", logsOn("2024-03-15", "2024-03-15", "2024-03-14"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.logs))
		})
	}
}

func TestIsCompletedOn(t *testing.T) {
	logs := logsOn("2024-03-14", "2024-03-15")

	assert.True(t, IsCompletedOn(logs, day("2024-03-15")))
	assert.False(t, IsCompletedOn(logs, day("2024-03-16")))
}
