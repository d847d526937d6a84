package category

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("category not found")

type Category struct {
	ID        int
	Name      string
	Color     string
	CreatedAt time.Time
}
