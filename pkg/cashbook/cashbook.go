package cashbook

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrEntryNotFound  = errors.New("entry not found")
	ErrGroupInUse     = errors.New("group has entries and cannot be deleted")
	ErrDuplicateGroup = errors.New("group name already exists")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrInvalidKind    = errors.New("invalid entry kind")
)

// Kind selects between the two sides of the cash book.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

type Group struct {
	ID   int
	Kind Kind
	Name string
}

type Entry struct {
	ID        int
	Kind      Kind
	Date      time.Time
	Name      string
	GroupID   int
	GroupName string
	Amount    decimal.Decimal
	Notes     string
	CreatedAt time.Time
}

// Filter narrows entry listings; zero values are ignored.
type Filter struct {
	From    time.Time
	To      time.Time
	GroupID *int
	Search  string
}

// GroupTotal is one group's share of a range's entries.
type GroupTotal struct {
	GroupID   int
	GroupName string
	Total     decimal.Decimal
	Count     int
}

// Summary nets income against expenses over a range.
type Summary struct {
	From         time.Time
	To           time.Time
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}
