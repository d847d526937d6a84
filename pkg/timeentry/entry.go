package timeentry

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("time entry not found")
	ErrAlreadyStopped = errors.New("this time entry is already stopped")
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrFutureTime     = errors.New("time entry cannot be in the future")
	ErrOverlap        = errors.New("this time entry overlaps with an existing entry")
)

type TimeEntry struct {
	ID                int
	ActivityID        int
	ActivityName      string
	StartTime         time.Time
	EndTime           *time.Time
	DurationMinutes   int
	Notes             string
	IsManuallyEntered bool
	SyncToken         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Open reports whether the entry is still running.
func (e TimeEntry) Open() bool {
	return e.EndTime == nil
}

// Duration computes the stored minute count for a closed interval,
// truncating partial minutes.
func Duration(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// Overlaps is the strict half-open interval test: two closed entries overlap
// iff a.start < b.end and a.end > b.start. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Gap is a sub-interval of an analysis range not covered by any entry.
type Gap struct {
	Start            time.Time
	End              time.Time
	DurationMinutes  int
	PreviousActivity string
	NextActivity     string
}

// FindGaps returns the gaps of at least one minute between closed entries
// inside [rangeStart, rangeEnd]. Entries must be sorted by start time. The
// whole range is one gap when there are no entries; the tail after the last
// entry counts as a gap when it does not reach the range end.
func FindGaps(entries []TimeEntry, rangeStart, rangeEnd time.Time) []Gap {
	gaps := []Gap{}

	if len(entries) == 0 {
		return append(gaps, Gap{
			Start:           rangeStart,
			End:             rangeEnd,
			DurationMinutes: Duration(rangeStart, rangeEnd),
		})
	}

	previousEnd := rangeStart
	previousActivity := ""
	for _, entry := range entries {
		if entry.EndTime == nil {
			continue
		}
		if entry.StartTime.Sub(previousEnd) >= time.Minute {
			gaps = append(gaps, Gap{
				Start:            previousEnd,
				End:              entry.StartTime,
				DurationMinutes:  Duration(previousEnd, entry.StartTime),
				PreviousActivity: previousActivity,
				NextActivity:     entry.ActivityName,
			})
		}
		previousEnd = *entry.EndTime
		previousActivity = entry.ActivityName
	}

	if previousEnd.Before(rangeEnd) {
		gaps = append(gaps, Gap{
			Start:            previousEnd,
			End:              rangeEnd,
			DurationMinutes:  Duration(previousEnd, rangeEnd),
			PreviousActivity: previousActivity,
		})
	}

	return gaps
}
