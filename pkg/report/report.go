package report

import (
	"math"
	"sort"
	"time"

	"github.com/daylog/daylog/pkg/timeentry"
)

// CategoryRow aggregates tracked time for one category over a range.
// Entries whose activity has no category land in the zero-ID
// "Uncategorized" row.
type CategoryRow struct {
	CategoryID   int
	CategoryName string
	Color        string
	TotalMinutes int
	EntryCount   int
	Percent      float64
	Entries      []timeentry.TimeEntry
}

type CategoryReport struct {
	From         time.Time
	To           time.Time
	TotalMinutes int
	Rows         []CategoryRow
}

// ActivityRow aggregates tracked time for one activity over a range.
type ActivityRow struct {
	ActivityID   int
	ActivityName string
	TotalMinutes int
	EntryCount   int
	Percent      float64
}

type ActivityReport struct {
	From         time.Time
	To           time.Time
	TotalMinutes int
	Rows         []ActivityRow
}

// GroupByCategory buckets entries using the activity-to-category
// mapping and computes per-bucket percentages of the grand total.
func GroupByCategory(entries []timeentry.TimeEntry, categoryOf func(activityID int) (int, string, string)) []CategoryRow {
	buckets := map[int]*CategoryRow{}
	for _, e := range entries {
		id, name, color := categoryOf(e.ActivityID)
		if name == "" {
			name = "Uncategorized"
		}
		row, ok := buckets[id]
		if !ok {
			row = &CategoryRow{CategoryID: id, CategoryName: name, Color: color}
			buckets[id] = row
		}
		row.TotalMinutes += e.DurationMinutes
		row.EntryCount++
		row.Entries = append(row.Entries, e)
	}

	total := 0
	for _, row := range buckets {
		total += row.TotalMinutes
	}

	rows := make([]CategoryRow, 0, len(buckets))
	for _, row := range buckets {
		row.Percent = Percent(row.TotalMinutes, total)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMinutes != rows[j].TotalMinutes {
			return rows[i].TotalMinutes > rows[j].TotalMinutes
		}
		return rows[i].CategoryName < rows[j].CategoryName
	})
	return rows
}

// GroupByActivity buckets entries per activity, sorted by total time
// descending with ties broken by name.
func GroupByActivity(entries []timeentry.TimeEntry) []ActivityRow {
	buckets := map[int]*ActivityRow{}
	for _, e := range entries {
		row, ok := buckets[e.ActivityID]
		if !ok {
			row = &ActivityRow{ActivityID: e.ActivityID, ActivityName: e.ActivityName}
			buckets[e.ActivityID] = row
		}
		row.TotalMinutes += e.DurationMinutes
		row.EntryCount++
	}

	total := 0
	for _, row := range buckets {
		total += row.TotalMinutes
	}

	rows := make([]ActivityRow, 0, len(buckets))
	for _, row := range buckets {
		row.Percent = Percent(row.TotalMinutes, total)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalMinutes != rows[j].TotalMinutes {
			return rows[i].TotalMinutes > rows[j].TotalMinutes
		}
		return rows[i].ActivityName < rows[j].ActivityName
	})
	return rows
}

// Percent is part over total as a percentage rounded to one decimal,
// 0 when the total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
