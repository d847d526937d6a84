package utils

import "time"

const DateLayout = "2006-01-02"

// FormatTime renders an instant for storage, normalized to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTime reads a stored timestamp. It accepts RFC3339 values written by
// the application and the "2006-01-02 15:04:05" form of CURRENT_TIMESTAMP
// column defaults.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
}

// FormatDate renders a calendar date for storage.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a stored calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
