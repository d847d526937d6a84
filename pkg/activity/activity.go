package activity

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("activity not found")

type Activity struct {
	ID          int
	Name        string
	Description string
	IsActive    bool
	Category    *CategoryRef
	CreatedAt   time.Time
}

// CategoryRef is the category as joined onto an activity row.
type CategoryRef struct {
	ID    int
	Name  string
	Color string
}
