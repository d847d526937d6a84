package debt

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound            = errors.New("debt not found")
	ErrScheduleNotFound    = errors.New("payment schedule not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrScheduleMismatch    = errors.New("schedule does not belong to this debt")
	ErrExceedsRemaining    = errors.New("payment exceeds the schedule's remaining amount")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidType         = errors.New("invalid debt type")
	ErrScheduleHasPayments = errors.New("schedule has payments and cannot be deleted")
)

type Type string

const (
	TypeOneTime        Type = "One-Time"
	TypeMultipleTenure Type = "Multiple-Tenure"
)

func (t Type) Valid() bool {
	return t == TypeOneTime || t == TypeMultipleTenure
}

// Status applies to both a debt and a schedule line. A schedule moves
// Pending -> Partially Paid -> Paid as money arrives; Skipped is set by
// hand and never by a payment. A debt's status is derived from its
// schedule lines and is never set directly.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusPartiallyPaid Status = "Partially Paid"
	StatusPaid          Status = "Paid"
	StatusSkipped       Status = "Skipped"
)

type Debt struct {
	ID        int
	Name      string
	Type      Type
	Status    Status
	CreatedAt time.Time
}

type Schedule struct {
	ID             int
	DebtID         int
	SNo            int
	ExpectedDate   time.Time
	ExpectedAmount decimal.Decimal
	PaidDate       *time.Time
	PaidAmount     decimal.Decimal
	Status         Status
	CreatedAt      time.Time
}

// Remaining is what is still owed on this line.
func (s Schedule) Remaining() decimal.Decimal {
	remaining := s.ExpectedAmount.Sub(s.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

type Payment struct {
	ID          int
	DebtID      int
	ScheduleID  int
	PaymentDate time.Time
	Amount      decimal.Decimal
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ScheduleStatusFor derives a line's status from its cumulative paid
// amount.
func ScheduleStatusFor(paid, expected decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(expected):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusPending
	}
}

// DeriveStatus recomputes a debt's status from its schedule lines:
// Paid when every line is Paid, Partially Paid when any money has
// landed, otherwise the current status stands.
func DeriveStatus(current Status, schedules []Schedule) Status {
	if len(schedules) == 0 {
		return current
	}
	allPaid := true
	anyPaid := false
	for _, s := range schedules {
		if s.Status != StatusPaid {
			allPaid = false
		}
		if s.Status == StatusPaid || s.Status == StatusPartiallyPaid {
			anyPaid = true
		}
	}
	if allPaid {
		return StatusPaid
	}
	if anyPaid {
		return StatusPartiallyPaid
	}
	return current
}

// StatementLine is a schedule line with its remaining amount spelled out.
type StatementLine struct {
	Schedule
	RemainingAmount decimal.Decimal
}

// DebtStatement totals a debt's schedule lines.
type DebtStatement struct {
	Debt           Debt
	TotalExpected  decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalRemaining decimal.Decimal
	Lines          []StatementLine
}

// BuildStatement folds schedule lines into a statement. Skipped lines
// appear in the listing but never count toward the remaining total.
func BuildStatement(d Debt, schedules []Schedule) DebtStatement {
	statement := DebtStatement{
		Debt:           d,
		TotalExpected:  decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalRemaining: decimal.Zero,
		Lines:          make([]StatementLine, 0, len(schedules)),
	}
	for _, s := range schedules {
		statement.TotalExpected = statement.TotalExpected.Add(s.ExpectedAmount)
		statement.TotalPaid = statement.TotalPaid.Add(s.PaidAmount)
		remaining := s.Remaining()
		if s.Status == StatusSkipped {
			remaining = decimal.Zero
		} else {
			statement.TotalRemaining = statement.TotalRemaining.Add(remaining)
		}
		statement.Lines = append(statement.Lines, StatementLine{Schedule: s, RemainingAmount: remaining})
	}
	return statement
}

// Outstanding totals remaining amounts across every debt.
type Outstanding struct {
	TotalExpected  decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalRemaining decimal.Decimal
}
