package debt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, d Debt) (Debt, error)
	Get(ctx context.Context, id int) (Debt, error)
	Update(ctx context.Context, d Debt) (Debt, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, status *Status) ([]Debt, error)
	StoreSchedule(ctx context.Context, s Schedule) (Schedule, error)
	GetSchedule(ctx context.Context, id int) (Schedule, error)
	UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id int) error
	SchedulesForDebt(ctx context.Context, debtID int) ([]Schedule, error)
	CountPaymentsForSchedule(ctx context.Context, scheduleID int) (int, error)
	PaymentsForDebt(ctx context.Context, debtID int) ([]Payment, error)
	// ApplyPayment persists the payment, the updated schedule line and
	// the recomputed debt status in a single transaction.
	ApplyPayment(ctx context.Context, p Payment, s Schedule, debtStatus Status) (Payment, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectDebt = "SELECT id, name, debt_type, status, created_at FROM debt"

const selectSchedule = `SELECT id, debt_id, s_no, expected_payment_date, expected_amount,
	COALESCE(paid_date, ''), COALESCE(paid_amount, '0'), status, created_at
	FROM debt_payment_schedule`

const selectPayment = `SELECT id, debt_id, schedule_id, payment_date, amount, COALESCE(notes, ''),
	created_at, updated_at
	FROM debt_payment`

func (r *RepositoryImpl) Store(ctx context.Context, d Debt) (Debt, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO debt (name, debt_type, status, created_at) VALUES (?, ?, ?, ?)",
		d.Name, d.Type, d.Status, utils.FormatTime(d.CreatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing debt")
		return Debt{}, fmt.Errorf("storing debt: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Debt{}, fmt.Errorf("fetching debt id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Debt, error) {
	row := r.db.QueryRowContext(ctx, selectDebt+" WHERE id = ?", id)
	d, err := scanDebt(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Debt{}, ErrNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching debt")
		return Debt{}, fmt.Errorf("fetching debt: %w", err)
	}
	return d, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, d Debt) (Debt, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE debt SET name = ?, debt_type = ?, status = ? WHERE id = ?",
		d.Name, d.Type, d.Status, d.ID)
	if err != nil {
		log.WithError(err).Error("Error updating debt")
		return Debt{}, fmt.Errorf("updating debt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Debt{}, fmt.Errorf("updating debt: %w", err)
	}
	if affected == 0 {
		return Debt{}, ErrNotFound
	}
	return r.Get(ctx, d.ID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM debt WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting debt")
		return fmt.Errorf("deleting debt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting debt: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, status *Status) ([]Debt, error) {
	query := selectDebt
	args := []any{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Error listing debts")
		return nil, fmt.Errorf("listing debts: %w", err)
	}
	defer rows.Close()

	var debts []Debt
	for rows.Next() {
		d, err := scanDebt(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning debt")
			return nil, fmt.Errorf("scanning debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func (r *RepositoryImpl) StoreSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO debt_payment_schedule (debt_id, s_no, expected_payment_date, expected_amount,
		paid_date, paid_amount, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.DebtID, s.SNo, utils.FormatDate(s.ExpectedDate), s.ExpectedAmount.String(),
		formatPaidDate(s.PaidDate), s.PaidAmount.String(), s.Status, utils.FormatTime(s.CreatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing payment schedule")
		return Schedule{}, fmt.Errorf("storing payment schedule: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Schedule{}, fmt.Errorf("fetching payment schedule id: %w", err)
	}
	return r.GetSchedule(ctx, int(id))
}

func (r *RepositoryImpl) GetSchedule(ctx context.Context, id int) (Schedule, error) {
	row := r.db.QueryRowContext(ctx, selectSchedule+" WHERE id = ?", id)
	s, err := scanSchedule(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Schedule{}, ErrScheduleNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching payment schedule")
		return Schedule{}, fmt.Errorf("fetching payment schedule: %w", err)
	}
	return s, nil
}

func (r *RepositoryImpl) UpdateSchedule(ctx context.Context, s Schedule) (Schedule, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE debt_payment_schedule SET s_no = ?, expected_payment_date = ?, expected_amount = ?,
		paid_date = ?, paid_amount = ?, status = ? WHERE id = ?`,
		s.SNo, utils.FormatDate(s.ExpectedDate), s.ExpectedAmount.String(),
		formatPaidDate(s.PaidDate), s.PaidAmount.String(), s.Status, s.ID)
	if err != nil {
		log.WithError(err).Error("Error updating payment schedule")
		return Schedule{}, fmt.Errorf("updating payment schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Schedule{}, fmt.Errorf("updating payment schedule: %w", err)
	}
	if affected == 0 {
		return Schedule{}, ErrScheduleNotFound
	}
	return r.GetSchedule(ctx, s.ID)
}

func (r *RepositoryImpl) DeleteSchedule(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM debt_payment_schedule WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting payment schedule")
		return fmt.Errorf("deleting payment schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting payment schedule: %w", err)
	}
	if affected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

func (r *RepositoryImpl) SchedulesForDebt(ctx context.Context, debtID int) ([]Schedule, error) {
	rows, err := r.db.QueryContext(ctx, selectSchedule+" WHERE debt_id = ? ORDER BY s_no ASC", debtID)
	if err != nil {
		log.WithError(err).Error("Error listing payment schedules")
		return nil, fmt.Errorf("listing payment schedules: %w", err)
	}
	defer rows.Close()

	var schedules []Schedule
	for rows.Next() {
		s, err := scanSchedule(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning payment schedule")
			return nil, fmt.Errorf("scanning payment schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *RepositoryImpl) CountPaymentsForSchedule(ctx context.Context, scheduleID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM debt_payment WHERE schedule_id = ?", scheduleID).Scan(&count)
	if err != nil {
		log.WithError(err).Error("Error counting payments")
		return 0, fmt.Errorf("counting payments: %w", err)
	}
	return count, nil
}

func (r *RepositoryImpl) PaymentsForDebt(ctx context.Context, debtID int) ([]Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		selectPayment+" WHERE debt_id = ? ORDER BY payment_date DESC, id DESC", debtID)
	if err != nil {
		log.WithError(err).Error("Error listing payments")
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := scanPayment(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning payment")
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *RepositoryImpl) ApplyPayment(ctx context.Context, p Payment, s Schedule, debtStatus Status) (Payment, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Payment{}, fmt.Errorf("beginning payment transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO debt_payment (debt_id, schedule_id, payment_date, amount, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.DebtID, p.ScheduleID, utils.FormatDate(p.PaymentDate), p.Amount.String(), p.Notes,
		utils.FormatTime(p.CreatedAt), utils.FormatTime(p.UpdatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing payment")
		return Payment{}, fmt.Errorf("storing payment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Payment{}, fmt.Errorf("fetching payment id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE debt_payment_schedule SET paid_date = ?, paid_amount = ?, status = ? WHERE id = ?",
		formatPaidDate(s.PaidDate), s.PaidAmount.String(), s.Status, s.ID)
	if err != nil {
		log.WithError(err).Error("Error updating payment schedule")
		return Payment{}, fmt.Errorf("updating payment schedule: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE debt SET status = ? WHERE id = ?", debtStatus, p.DebtID)
	if err != nil {
		log.WithError(err).Error("Error updating debt status")
		return Payment{}, fmt.Errorf("updating debt status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Payment{}, fmt.Errorf("committing payment transaction: %w", err)
	}

	p.ID = int(id)
	return p, nil
}

func scanDebt(scan func(...any) error) (Debt, error) {
	var d Debt
	var createdAt string
	if err := scan(&d.ID, &d.Name, &d.Type, &d.Status, &createdAt); err != nil {
		return Debt{}, err
	}
	var err error
	if d.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Debt{}, err
	}
	return d, nil
}

func scanSchedule(scan func(...any) error) (Schedule, error) {
	var s Schedule
	var expectedDate, expectedAmount, paidDate, paidAmount, createdAt string
	if err := scan(&s.ID, &s.DebtID, &s.SNo, &expectedDate, &expectedAmount,
		&paidDate, &paidAmount, &s.Status, &createdAt); err != nil {
		return Schedule{}, err
	}
	var err error
	if s.ExpectedDate, err = utils.ParseDate(expectedDate); err != nil {
		return Schedule{}, err
	}
	if s.ExpectedAmount, err = decimal.NewFromString(expectedAmount); err != nil {
		return Schedule{}, fmt.Errorf("parsing expected amount: %w", err)
	}
	if paidDate != "" {
		date, err := utils.ParseDate(paidDate)
		if err != nil {
			return Schedule{}, err
		}
		s.PaidDate = &date
	}
	if s.PaidAmount, err = decimal.NewFromString(paidAmount); err != nil {
		return Schedule{}, fmt.Errorf("parsing paid amount: %w", err)
	}
	if s.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func scanPayment(scan func(...any) error) (Payment, error) {
	var p Payment
	var date, amount, createdAt, updatedAt string
	if err := scan(&p.ID, &p.DebtID, &p.ScheduleID, &date, &amount, &p.Notes, &createdAt, &updatedAt); err != nil {
		return Payment{}, err
	}
	var err error
	if p.PaymentDate, err = utils.ParseDate(date); err != nil {
		return Payment{}, err
	}
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return Payment{}, fmt.Errorf("parsing amount: %w", err)
	}
	if p.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Payment{}, err
	}
	if p.UpdatedAt, err = utils.ParseTime(updatedAt); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func formatPaidDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return utils.FormatDate(*t)
}
