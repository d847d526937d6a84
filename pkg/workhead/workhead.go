package workhead

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("work head not found")

// WorkHead is a named stream of work that updates are logged against.
type WorkHead struct {
	ID          int
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
