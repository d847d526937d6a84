package schedule

import (
	"errors"
	"sort"
	"time"
)

var ErrUnknownItemKind = errors.New("unknown schedule item kind")

// Kind tags where a schedule item came from.
type Kind string

const (
	KindHabit      Kind = "habit"
	KindTask       Kind = "task"
	KindSubProcess Kind = "sub_process"
)

// Item is one row of the daily schedule. TimeOfDay is "15:04" or empty
// for items with no fixed time.
type Item struct {
	Kind      Kind
	RefID     int
	Title     string
	Detail    string
	TimeOfDay string
	Completed bool
	Priority  string
}

// Day is the assembled schedule for one date.
type Day struct {
	Date  time.Time
	Items []Item
}

// SortItems orders items by time of day, untimed items last. Ties keep
// a stable kind-then-id order so the schedule does not shuffle between
// requests.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if (a.TimeOfDay == "") != (b.TimeOfDay == "") {
			return a.TimeOfDay != ""
		}
		if a.TimeOfDay != b.TimeOfDay {
			return a.TimeOfDay < b.TimeOfDay
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.RefID < b.RefID
	})
}
