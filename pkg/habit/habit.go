package habit

import (
	"errors"
	"math"
	"sort"
	"time"
)

var (
	ErrNotFound         = errors.New("habit not found")
	ErrLogNotFound      = errors.New("habit log not found")
	ErrAlreadyLogged    = errors.New("habit already logged for this date")
	ErrInvalidFrequency = errors.New("invalid habit frequency")
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

type Habit struct {
	ID               int
	Name             string
	Description      string
	Frequency        Frequency
	ReminderTime     string
	IsReminderActive bool
	CreatedAt        time.Time
}

type Log struct {
	ID          int
	HabitID     int
	LogDate     time.Time
	CompletedAt time.Time
	Notes       string
}

// IsCompletedOn reports whether any log falls on the given calendar day.
func IsCompletedOn(logs []Log, date time.Time) bool {
	for _, l := range logs {
		if sameDay(l.LogDate, date) {
			return true
		}
	}
	return false
}

// CompletionRate is the percentage of expected completions that were
// logged over a window of days. Weekly habits expect one completion per
// seven days, monthly per thirty. Capped at 100, rounded to one decimal.
func CompletionRate(completions int, frequency Frequency, windowDays int) float64 {
	var expected int
	switch frequency {
	case FrequencyDaily:
		expected = windowDays
	case FrequencyWeekly:
		expected = windowDays / 7
	case FrequencyMonthly:
		expected = windowDays / 30
	}
	if expected <= 0 {
		return 0
	}
	rate := float64(completions) / float64(expected) * 100
	if rate > 100 {
		rate = 100
	}
	return math.Round(rate*10) / 10
}

// CurrentStreak counts consecutive completed days ending at the most
// recent log, however long ago that was. A gap of more than one day
// breaks the streak. Comparison is by calendar date, ignoring the zone
// logs were recorded in.
func CurrentStreak(logs []Log) int {
	if len(logs) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(logs))
	days := make([]string, 0, len(logs))
	for _, l := range logs {
		key := l.LogDate.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			days = append(days, key)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	cursor, err := time.Parse("2006-01-02", days[0])
	if err != nil {
		return 0
	}
	streak := 1
	for _, day := range days[1:] {
		cursor = cursor.AddDate(0, 0, -1)
		if day != cursor.Format("2006-01-02") {
			break
		}
		streak++
	}
	return streak
}

// DailyAverage is the mean number of completions per calendar day that
// has at least one log, rounded to one decimal.
func DailyAverage(logs []Log) float64 {
	if len(logs) == 0 {
		return 0
	}
	days := make(map[string]bool, len(logs))
	for _, l := range logs {
		days[l.LogDate.Format("2006-01-02")] = true
	}
	return math.Round(float64(len(logs))/float64(len(days))*10) / 10
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
