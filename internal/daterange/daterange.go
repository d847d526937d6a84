package daterange

import (
	"errors"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidRange = errors.New("invalid range type")
	ErrInvalidDate  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrMissingDates = errors.New("start_date and end_date are required for custom range")
)

// Range is an inclusive range of calendar days, midnight-aligned in the
// location of the time it was resolved against.
type Range struct {
	Start time.Time
	End   time.Time
}

// Resolve turns a named range shortcut (today, yesterday, this_month, custom)
// into explicit dates. For "custom" both startStr and endStr must be given.
func Resolve(rangeType, startStr, endStr string, now time.Time) (Range, error) {
	today := midnight(now)
	switch rangeType {
	case "", "today":
		return Range{Start: today, End: today}, nil
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return Range{Start: y, End: y}, nil
	case "this_month":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return Range{Start: first, End: today}, nil
	case "custom":
		if startStr == "" || endStr == "" {
			return Range{}, ErrMissingDates
		}
		return Parse(startStr, endStr, now.Location())
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, rangeType)
	}
}

// Parse builds a Range from explicit YYYY-MM-DD strings in the given location.
func Parse(startStr, endStr string, loc *time.Location) (Range, error) {
	start, err := time.ParseInLocation(dateLayout, startStr, loc)
	if err != nil {
		return Range{}, ErrInvalidDate
	}
	end, err := time.ParseInLocation(dateLayout, endStr, loc)
	if err != nil {
		return Range{}, ErrInvalidDate
	}
	return Range{Start: start, End: end}, nil
}

// StartOfDay returns the range start as an instant (midnight).
func (r Range) StartOfDay() time.Time {
	return r.Start
}

// EndOfDay returns the last instant of the range's final day.
func (r Range) EndOfDay() time.Time {
	return r.End.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Days lists every calendar day in the range, in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
