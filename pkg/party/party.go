package party

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrLedgerNotFound      = errors.New("party ledger not found")
	ErrTransactionNotFound = errors.New("party transaction not found")
	ErrLedgerInUse         = errors.New("party ledger has transactions and cannot be deleted")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidNature       = errors.New("invalid balance nature")
	ErrInvalidType         = errors.New("invalid transaction type")
)

// Nature says which way a party's balance leans: Receivable means the
// party owes us, Payable means we owe the party.
type Nature string

const (
	NatureReceivable Nature = "Receivable"
	NaturePayable    Nature = "Payable"
)

func (n Nature) Valid() bool {
	return n == NatureReceivable || n == NaturePayable
}

type TransactionType string

const (
	TypeMoneyIn  TransactionType = "Money In"
	TypeMoneyOut TransactionType = "Money Out"
)

func (t TransactionType) Valid() bool {
	return t == TypeMoneyIn || t == TypeMoneyOut
}

type Ledger struct {
	ID             int
	PartyName      string
	OpeningBalance decimal.Decimal
	BalanceNature  Nature
	CreatedAt      time.Time
}

// SignedOpening maps the opening balance onto a single axis where
// positive is receivable and negative is payable.
func (l Ledger) SignedOpening() decimal.Decimal {
	if l.BalanceNature == NaturePayable {
		return l.OpeningBalance.Neg()
	}
	return l.OpeningBalance
}

type Transaction struct {
	ID        int
	Date      time.Time
	PartyID   int
	PartyName string
	Type      TransactionType
	Amount    decimal.Decimal
	Notes     string
	CreatedAt time.Time
}

// Signed is the transaction's effect on the receivable axis.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeMoneyOut {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Balance folds transactions into the ledger's signed opening balance.
func Balance(l Ledger, transactions []Transaction) decimal.Decimal {
	balance := l.SignedOpening()
	for _, t := range transactions {
		balance = balance.Add(t.Signed())
	}
	return balance
}

// DeriveNature reads the current nature off a signed balance.
func DeriveNature(balance decimal.Decimal) Nature {
	if balance.IsNegative() {
		return NaturePayable
	}
	return NatureReceivable
}

// StatementLine is one row of a party statement with its running balance.
type StatementLine struct {
	Date        time.Time
	Description string
	Type        TransactionType
	Amount      decimal.Decimal
	Balance     decimal.Decimal
	IsOpening   bool
}

// Statement builds the opening line plus one line per transaction in
// chronological order, each carrying the running balance.
func Statement(l Ledger, transactions []Transaction) []StatementLine {
	lines := make([]StatementLine, 0, len(transactions)+1)
	balance := l.SignedOpening()
	lines = append(lines, StatementLine{
		Date:        l.CreatedAt,
		Description: "Opening balance",
		Amount:      l.OpeningBalance,
		Balance:     balance,
		IsOpening:   true,
	})
	for _, t := range transactions {
		balance = balance.Add(t.Signed())
		lines = append(lines, StatementLine{
			Date:        t.Date,
			Description: t.Notes,
			Type:        t.Type,
			Amount:      t.Amount,
			Balance:     balance,
		})
	}
	return lines
}

// Filter narrows transaction listings; zero values are ignored.
type Filter struct {
	From    time.Time
	To      time.Time
	PartyID *int
	Search  string
}
