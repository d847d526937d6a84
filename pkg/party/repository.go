package party

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/utils"
)

type Repository interface {
	StoreLedger(ctx context.Context, l Ledger) (Ledger, error)
	GetLedger(ctx context.Context, id int) (Ledger, error)
	UpdateLedger(ctx context.Context, l Ledger) (Ledger, error)
	DeleteLedger(ctx context.Context, id int) error
	ListLedgers(ctx context.Context) ([]Ledger, error)
	CountTransactions(ctx context.Context, partyID int) (int, error)
	StoreTransaction(ctx context.Context, t Transaction) (Transaction, error)
	GetTransaction(ctx context.Context, id int) (Transaction, error)
	UpdateTransaction(ctx context.Context, t Transaction) (Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
	ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error)
	TransactionsForParty(ctx context.Context, partyID int) ([]Transaction, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectLedger = "SELECT id, party_name, opening_balance, balance_nature, created_at FROM party_ledger"

const selectTransaction = `SELECT t.id, t.date, t.party_id, l.party_name, t.transaction_type, t.amount,
	COALESCE(t.notes, ''), t.created_at
	FROM party_transaction t
	JOIN party_ledger l ON l.id = t.party_id`

func (r *RepositoryImpl) StoreLedger(ctx context.Context, l Ledger) (Ledger, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO party_ledger (party_name, opening_balance, balance_nature, created_at) VALUES (?, ?, ?, ?)",
		l.PartyName, l.OpeningBalance.String(), l.BalanceNature, utils.FormatTime(l.CreatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing party ledger")
		return Ledger{}, fmt.Errorf("storing party ledger: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Ledger{}, fmt.Errorf("fetching party ledger id: %w", err)
	}
	return r.GetLedger(ctx, int(id))
}

func (r *RepositoryImpl) GetLedger(ctx context.Context, id int) (Ledger, error) {
	row := r.db.QueryRowContext(ctx, selectLedger+" WHERE id = ?", id)
	l, err := scanLedger(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Ledger{}, ErrLedgerNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching party ledger")
		return Ledger{}, fmt.Errorf("fetching party ledger: %w", err)
	}
	return l, nil
}

func (r *RepositoryImpl) UpdateLedger(ctx context.Context, l Ledger) (Ledger, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE party_ledger SET party_name = ?, opening_balance = ?, balance_nature = ? WHERE id = ?",
		l.PartyName, l.OpeningBalance.String(), l.BalanceNature, l.ID)
	if err != nil {
		log.WithError(err).Error("Error updating party ledger")
		return Ledger{}, fmt.Errorf("updating party ledger: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Ledger{}, fmt.Errorf("updating party ledger: %w", err)
	}
	if affected == 0 {
		return Ledger{}, ErrLedgerNotFound
	}
	return r.GetLedger(ctx, l.ID)
}

func (r *RepositoryImpl) DeleteLedger(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM party_ledger WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting party ledger")
		return fmt.Errorf("deleting party ledger: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting party ledger: %w", err)
	}
	if affected == 0 {
		return ErrLedgerNotFound
	}
	return nil
}

func (r *RepositoryImpl) ListLedgers(ctx context.Context) ([]Ledger, error) {
	rows, err := r.db.QueryContext(ctx, selectLedger+" ORDER BY party_name ASC")
	if err != nil {
		log.WithError(err).Error("Error listing party ledgers")
		return nil, fmt.Errorf("listing party ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []Ledger
	for rows.Next() {
		l, err := scanLedger(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning party ledger")
			return nil, fmt.Errorf("scanning party ledger: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

func (r *RepositoryImpl) CountTransactions(ctx context.Context, partyID int) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM party_transaction WHERE party_id = ?", partyID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting party transactions: %w", err)
	}
	return count, nil
}

func (r *RepositoryImpl) StoreTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO party_transaction (date, party_id, transaction_type, amount, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		utils.FormatDate(t.Date), t.PartyID, t.Type, t.Amount.String(), t.Notes,
		utils.FormatTime(t.CreatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing party transaction")
		return Transaction{}, fmt.Errorf("storing party transaction: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Transaction{}, fmt.Errorf("fetching party transaction id: %w", err)
	}
	return r.GetTransaction(ctx, int(id))
}

func (r *RepositoryImpl) GetTransaction(ctx context.Context, id int) (Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectTransaction+" WHERE t.id = ?", id)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Transaction{}, ErrTransactionNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching party transaction")
		return Transaction{}, fmt.Errorf("fetching party transaction: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) UpdateTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE party_transaction SET date = ?, party_id = ?, transaction_type = ?, amount = ?, notes = ? WHERE id = ?",
		utils.FormatDate(t.Date), t.PartyID, t.Type, t.Amount.String(), t.Notes, t.ID)
	if err != nil {
		log.WithError(err).Error("Error updating party transaction")
		return Transaction{}, fmt.Errorf("updating party transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Transaction{}, fmt.Errorf("updating party transaction: %w", err)
	}
	if affected == 0 {
		return Transaction{}, ErrTransactionNotFound
	}
	return r.GetTransaction(ctx, t.ID)
}

func (r *RepositoryImpl) DeleteTransaction(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM party_transaction WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting party transaction")
		return fmt.Errorf("deleting party transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting party transaction: %w", err)
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *RepositoryImpl) ListTransactions(ctx context.Context, filter Filter) ([]Transaction, error) {
	var conditions []string
	var args []any
	if !filter.From.IsZero() {
		conditions = append(conditions, "t.date >= ?")
		args = append(args, utils.FormatDate(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "t.date <= ?")
		args = append(args, utils.FormatDate(filter.To))
	}
	if filter.PartyID != nil {
		conditions = append(conditions, "t.party_id = ?")
		args = append(args, *filter.PartyID)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(l.party_name LIKE ? OR t.notes LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	query := selectTransaction
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.date DESC, t.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Error listing party transactions")
		return nil, fmt.Errorf("listing party transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// TransactionsForParty returns the party's transactions oldest first,
// the order running balances are computed in.
func (r *RepositoryImpl) TransactionsForParty(ctx context.Context, partyID int) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+" WHERE t.party_id = ? ORDER BY t.date ASC, t.id ASC", partyID)
	if err != nil {
		log.WithError(err).Error("Error listing party transactions")
		return nil, fmt.Errorf("listing party transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]Transaction, error) {
	var transactions []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning party transaction")
			return nil, fmt.Errorf("scanning party transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func scanLedger(scan func(...any) error) (Ledger, error) {
	var l Ledger
	var opening, createdAt string
	if err := scan(&l.ID, &l.PartyName, &opening, &l.BalanceNature, &createdAt); err != nil {
		return Ledger{}, err
	}
	var err error
	if l.OpeningBalance, err = decimal.NewFromString(opening); err != nil {
		return Ledger{}, fmt.Errorf("parsing opening balance: %w", err)
	}
	if l.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Ledger{}, err
	}
	return l, nil
}

func scanTransaction(scan func(...any) error) (Transaction, error) {
	var t Transaction
	var date, amount, createdAt string
	if err := scan(&t.ID, &date, &t.PartyID, &t.PartyName, &t.Type, &amount, &t.Notes, &createdAt); err != nil {
		return Transaction{}, err
	}
	var err error
	if t.Date, err = utils.ParseDate(date); err != nil {
		return Transaction{}, err
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return Transaction{}, fmt.Errorf("parsing amount: %w", err)
	}
	if t.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Transaction{}, err
	}
	return t, nil
}
