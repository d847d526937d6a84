package subprocess

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("sub-process not found")
	ErrInvalidEstimate = errors.New("estimated days must be at least 0.1")
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
)

// MinEstimatedDays is the smallest accepted effort estimate.
var MinEstimatedDays = decimal.RequireFromString("0.1")

type SubProcess struct {
	ID            int
	GoalID        int
	GoalName      string
	Name          string
	EstimatedDays decimal.Decimal
	Status        Status
	Focus         bool
	SortOrder     int
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter narrows List results; nil fields are ignored.
type Filter struct {
	GoalID *int
	Status *Status
	Focus  *bool
}
