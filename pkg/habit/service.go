package habit

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/daylog/daylog/internal/utils"
)

// Stats summarizes one habit's recent performance.
type Stats struct {
	HabitID          int
	CurrentStreak    int
	WeekRate         float64
	MonthRate        float64
	TotalCompletions int
}

// RegisterRow is one habit's completion map over a date range.
type RegisterRow struct {
	Habit         Habit
	CompletedDays []string
}

// TrendPoint is a month's completion rate for one habit.
type TrendPoint struct {
	Year  int
	Month int
	Rate  float64
}

// OverallStats aggregates across all habits over the trailing 30 days.
type OverallStats struct {
	TotalHabits         int
	ActiveHabits        int
	CompletionRate      float64
	LongestStreak       int
	MostConsistentHabit string
}

// HabitTrend pairs a habit with its completion counts.
type HabitTrend struct {
	Habit           Habit
	CompletionCount int
	Rate            float64
}

// TrendSummary ranks habits by total completions, with aggregate
// totals across all logs.
type TrendSummary struct {
	Trends           []HabitTrend
	TotalCompletions int
	DailyAverage     float64
}

type Service interface {
	Create(ctx context.Context, h Habit) (Habit, error)
	Get(ctx context.Context, id int) (Habit, error)
	Update(ctx context.Context, h Habit) (Habit, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]Habit, error)
	WithActiveReminder(ctx context.Context) ([]Habit, error)
	LogCompletion(ctx context.Context, habitID int, date time.Time, notes string) (Log, error)
	Toggle(ctx context.Context, habitID int, date time.Time) (bool, error)
	History(ctx context.Context, habitID int, from, to time.Time) ([]Log, error)
	Register(ctx context.Context, from, to time.Time) ([]RegisterRow, error)
	Stats(ctx context.Context, habitID int) (Stats, error)
	Trends(ctx context.Context, habitID int, months int) ([]TrendPoint, error)
	OverallStats(ctx context.Context) (OverallStats, error)
	OverallTrends(ctx context.Context, days int) (TrendSummary, error)
	CompletedOn(ctx context.Context, date time.Time) (map[int]bool, error)
	Logs(ctx context.Context, habitID *int) ([]Log, error)
	GetLog(ctx context.Context, id int) (Log, error)
	UpdateLog(ctx context.Context, l Log) (Log, error)
	DeleteLogByID(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
	loc   *time.Location
}

func NewService(repo Repository, clock utils.Clock, loc *time.Location) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock, loc: loc}
}

func (s *ServiceImpl) Create(ctx context.Context, h Habit) (Habit, error) {
	if h.Frequency == "" {
		h.Frequency = FrequencyDaily
	}
	if !h.Frequency.Valid() {
		return Habit{}, ErrInvalidFrequency
	}
	h.CreatedAt = s.clock.Now()
	return s.repo.Store(ctx, h)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Habit, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, h Habit) (Habit, error) {
	if !h.Frequency.Valid() {
		return Habit{}, ErrInvalidFrequency
	}
	return s.repo.Update(ctx, h)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Habit, error) {
	return s.repo.List(ctx)
}

func (s *ServiceImpl) WithActiveReminder(ctx context.Context) ([]Habit, error) {
	return s.repo.ListWithActiveReminder(ctx)
}

// LogCompletion records one completion per habit per day.
func (s *ServiceImpl) LogCompletion(ctx context.Context, habitID int, date time.Time, notes string) (Log, error) {
	if _, err := s.repo.Get(ctx, habitID); err != nil {
		return Log{}, err
	}
	if date.IsZero() {
		date = s.clock.Now().In(s.loc)
	}
	if _, err := s.repo.FindLog(ctx, habitID, date); err == nil {
		return Log{}, ErrAlreadyLogged
	} else if !errors.Is(err, ErrLogNotFound) {
		return Log{}, err
	}
	return s.repo.StoreLog(ctx, Log{
		HabitID:     habitID,
		LogDate:     date,
		CompletedAt: s.clock.Now(),
		Notes:       notes,
	})
}

// Toggle logs the date if missing, removes the log if present.
// Returns true when the habit ends up completed for the date.
func (s *ServiceImpl) Toggle(ctx context.Context, habitID int, date time.Time) (bool, error) {
	if date.IsZero() {
		date = s.clock.Now().In(s.loc)
	}
	_, err := s.LogCompletion(ctx, habitID, date, "")
	if errors.Is(err, ErrAlreadyLogged) {
		if err := s.repo.DeleteLog(ctx, habitID, date); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ServiceImpl) History(ctx context.Context, habitID int, from, to time.Time) ([]Log, error) {
	if _, err := s.repo.Get(ctx, habitID); err != nil {
		return nil, err
	}
	return s.repo.LogsBetween(ctx, habitID, from, to)
}

// Register lists every habit with the days it was completed in range.
func (s *ServiceImpl) Register(ctx context.Context, from, to time.Time) ([]RegisterRow, error) {
	habits, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.repo.AllLogsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byHabit := make(map[int][]string)
	for _, l := range logs {
		byHabit[l.HabitID] = append(byHabit[l.HabitID], utils.FormatDate(l.LogDate))
	}
	rows := make([]RegisterRow, 0, len(habits))
	for _, h := range habits {
		days := byHabit[h.ID]
		if days == nil {
			days = []string{}
		}
		rows = append(rows, RegisterRow{Habit: h, CompletedDays: days})
	}
	return rows, nil
}

func (s *ServiceImpl) Stats(ctx context.Context, habitID int) (Stats, error) {
	h, err := s.repo.Get(ctx, habitID)
	if err != nil {
		return Stats{}, err
	}
	logs, err := s.repo.LogsForHabit(ctx, habitID)
	if err != nil {
		return Stats{}, err
	}
	today := s.clock.Now().In(s.loc)
	return Stats{
		HabitID:          habitID,
		CurrentStreak:    CurrentStreak(logs),
		WeekRate:         CompletionRate(countSince(logs, today, 7), h.Frequency, 7),
		MonthRate:        CompletionRate(countSince(logs, today, 30), h.Frequency, 30),
		TotalCompletions: len(logs),
	}, nil
}

// Trends reports the monthly completion rate over the trailing months,
// oldest first.
func (s *ServiceImpl) Trends(ctx context.Context, habitID int, months int) ([]TrendPoint, error) {
	h, err := s.repo.Get(ctx, habitID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().In(s.loc)
	points := make([]TrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, -1)
		logs, err := s.repo.LogsBetween(ctx, habitID, monthStart, monthEnd)
		if err != nil {
			return nil, err
		}
		days := monthEnd.Day()
		points = append(points, TrendPoint{
			Year:  monthStart.Year(),
			Month: int(monthStart.Month()),
			Rate:  CompletionRate(len(logs), h.Frequency, days),
		})
	}
	return points, nil
}

// OverallStats summarizes the whole habit collection. A habit is
// active when it was logged at least once in the last 30 days; the
// completion rate is logs in that window over 30 slots per habit.
func (s *ServiceImpl) OverallStats(ctx context.Context) (OverallStats, error) {
	habits, err := s.repo.List(ctx)
	if err != nil {
		return OverallStats{}, err
	}
	logs, err := s.repo.AllLogs(ctx)
	if err != nil {
		return OverallStats{}, err
	}

	today := s.clock.Now().In(s.loc)
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -29)

	byHabit := make(map[int][]Log)
	active := make(map[int]bool)
	recent := 0
	for _, l := range logs {
		byHabit[l.HabitID] = append(byHabit[l.HabitID], l)
		if inRange(l.LogDate, start, end) {
			recent++
			active[l.HabitID] = true
		}
	}

	stats := OverallStats{TotalHabits: len(habits), ActiveHabits: len(active)}
	if len(habits) > 0 {
		rate := float64(recent) / float64(len(habits)*30) * 100
		if rate > 100 {
			rate = 100
		}
		stats.CompletionRate = math.Round(rate*10) / 10
	}
	mostLogs := -1
	for _, h := range habits {
		if streak := CurrentStreak(byHabit[h.ID]); streak > stats.LongestStreak {
			stats.LongestStreak = streak
		}
		if count := len(byHabit[h.ID]); count > mostLogs {
			mostLogs = count
			stats.MostConsistentHabit = h.Name
		}
	}
	return stats, nil
}

// OverallTrends ranks every habit by its all-time completion count,
// with each habit's rate over the trailing window of days.
func (s *ServiceImpl) OverallTrends(ctx context.Context, days int) (TrendSummary, error) {
	habits, err := s.repo.List(ctx)
	if err != nil {
		return TrendSummary{}, err
	}
	logs, err := s.repo.AllLogs(ctx)
	if err != nil {
		return TrendSummary{}, err
	}

	today := s.clock.Now().In(s.loc)
	byHabit := make(map[int][]Log)
	for _, l := range logs {
		byHabit[l.HabitID] = append(byHabit[l.HabitID], l)
	}

	trends := make([]HabitTrend, 0, len(habits))
	for _, h := range habits {
		hlogs := byHabit[h.ID]
		trends = append(trends, HabitTrend{
			Habit:           h,
			CompletionCount: len(hlogs),
			Rate:            CompletionRate(countSince(hlogs, today, days), h.Frequency, days),
		})
	}
	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].CompletionCount > trends[j].CompletionCount
	})

	return TrendSummary{
		Trends:           trends,
		TotalCompletions: len(logs),
		DailyAverage:     DailyAverage(logs),
	}, nil
}

// CompletedOn maps habit IDs to completion for a single day.
func (s *ServiceImpl) CompletedOn(ctx context.Context, date time.Time) (map[int]bool, error) {
	logs, err := s.repo.AllLogsBetween(ctx, date, date)
	if err != nil {
		return nil, err
	}
	completed := make(map[int]bool, len(logs))
	for _, l := range logs {
		completed[l.HabitID] = true
	}
	return completed, nil
}

// Logs lists completion logs, optionally narrowed to one habit.
func (s *ServiceImpl) Logs(ctx context.Context, habitID *int) ([]Log, error) {
	if habitID != nil {
		if _, err := s.repo.Get(ctx, *habitID); err != nil {
			return nil, err
		}
		return s.repo.LogsForHabit(ctx, *habitID)
	}
	return s.repo.AllLogs(ctx)
}

func (s *ServiceImpl) GetLog(ctx context.Context, id int) (Log, error) {
	return s.repo.GetLog(ctx, id)
}

// UpdateLog moves a log to another date or rewrites its notes. The
// habit and recorded completion instant stay fixed, and the one log
// per day rule still holds on the new date.
func (s *ServiceImpl) UpdateLog(ctx context.Context, l Log) (Log, error) {
	existing, err := s.repo.GetLog(ctx, l.ID)
	if err != nil {
		return Log{}, err
	}
	if l.LogDate.IsZero() {
		l.LogDate = existing.LogDate
	}
	if utils.FormatDate(l.LogDate) != utils.FormatDate(existing.LogDate) {
		if _, err := s.repo.FindLog(ctx, existing.HabitID, l.LogDate); err == nil {
			return Log{}, ErrAlreadyLogged
		} else if !errors.Is(err, ErrLogNotFound) {
			return Log{}, err
		}
	}
	l.HabitID = existing.HabitID
	l.CompletedAt = existing.CompletedAt
	return s.repo.UpdateLog(ctx, l)
}

func (s *ServiceImpl) DeleteLogByID(ctx context.Context, id int) error {
	return s.repo.DeleteLogByID(ctx, id)
}

func countSince(logs []Log, today time.Time, windowDays int) int {
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(windowDays - 1))
	from, to := utils.FormatDate(start), utils.FormatDate(end)
	count := 0
	for _, l := range logs {
		day := utils.FormatDate(l.LogDate)
		if day >= from && day <= to {
			count++
		}
	}
	return count
}
