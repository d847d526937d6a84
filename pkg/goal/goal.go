package goal

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("goal not found")

type Status string

const (
	StatusFocus     Status = "FOCUS"
	StatusUnfocused Status = "UNFOCUSED"
	StatusDone      Status = "DONE"
	StatusAbandoned Status = "ABANDONED"
)

type Goal struct {
	ID        int
	Name      string
	Status    Status
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Statistics summarizes sub-process progress for one goal, with two
// progress measures: estimated effort completed and plain counts.
type Statistics struct {
	GoalID              int
	TotalSubProcesses   int
	CompletedCount      int
	FocusedCount        int
	TotalEstimatedDays  decimal.Decimal
	CompletedDays       decimal.Decimal
	RemainingDays       decimal.Decimal
	TimeProgressPercent float64
	CountProgressPercent float64
}
