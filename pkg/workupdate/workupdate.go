package workupdate

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("work update not found")

// SearchLimit caps free-text search results.
const SearchLimit = 100

type WorkUpdate struct {
	ID          int
	Date        time.Time
	HeadID      *int
	HeadName    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows List results; zero values are ignored.
type Filter struct {
	From   time.Time
	To     time.Time
	HeadID *int
	Search string
	Limit  int
}

// HeadSummary counts updates logged against one work head.
type HeadSummary struct {
	HeadID   int
	HeadName string
	Count    int
	LastDate time.Time
}

// MonthlyCount is the number of updates in one month of a year.
type MonthlyCount struct {
	Month int
	Count int
}
