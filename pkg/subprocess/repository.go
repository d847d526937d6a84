package subprocess

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, sp SubProcess) (SubProcess, error)
	Get(ctx context.Context, id int) (SubProcess, error)
	Update(ctx context.Context, sp SubProcess) (SubProcess, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter Filter) ([]SubProcess, error)
	ListFocused(ctx context.Context) ([]SubProcess, error)
	ShiftSortOrders(ctx context.Context, goalID int, fromOrder int, excludeID int) error
	SetStatusForGoal(ctx context.Context, goalID int, status Status, completedAt *time.Time) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = `SELECT sp.id, sp.goal_id, g.name, sp.name, sp.estimated_days, sp.status,
		sp.focus, sp.sort_order, sp.completed_at, sp.created_at, sp.updated_at
	FROM sub_process sp
	JOIN goal g ON g.id = sp.goal_id`

func (r *RepositoryImpl) Store(ctx context.Context, sp SubProcess) (SubProcess, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sub_process (goal_id, name, estimated_days, status, focus, sort_order, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.GoalID, sp.Name, sp.EstimatedDays.String(), sp.Status, sp.Focus, sp.SortOrder,
		formatCompletedAt(sp.CompletedAt), utils.FormatTime(sp.CreatedAt), utils.FormatTime(sp.UpdatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing sub-process")
		return SubProcess{}, fmt.Errorf("storing sub-process: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return SubProcess{}, fmt.Errorf("fetching sub-process id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (SubProcess, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE sp.id = ?", id)
	sp, err := scanSubProcess(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return SubProcess{}, ErrNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching sub-process")
		return SubProcess{}, fmt.Errorf("fetching sub-process: %w", err)
	}
	return sp, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, sp SubProcess) (SubProcess, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sub_process SET goal_id = ?, name = ?, estimated_days = ?, status = ?, focus = ?,
			sort_order = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		sp.GoalID, sp.Name, sp.EstimatedDays.String(), sp.Status, sp.Focus, sp.SortOrder,
		formatCompletedAt(sp.CompletedAt), utils.FormatTime(sp.UpdatedAt), sp.ID)
	if err != nil {
		log.WithError(err).Error("Error updating sub-process")
		return SubProcess{}, fmt.Errorf("updating sub-process: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return SubProcess{}, fmt.Errorf("updating sub-process: %w", err)
	}
	if affected == 0 {
		return SubProcess{}, ErrNotFound
	}
	return r.Get(ctx, sp.ID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sub_process WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting sub-process")
		return fmt.Errorf("deleting sub-process: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting sub-process: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, filter Filter) ([]SubProcess, error) {
	var conditions []string
	var args []any
	if filter.GoalID != nil {
		conditions = append(conditions, "sp.goal_id = ?")
		args = append(args, *filter.GoalID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "sp.status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Focus != nil {
		conditions = append(conditions, "sp.focus = ?")
		args = append(args, *filter.Focus)
	}
	query := selectQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sp.sort_order ASC, sp.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Error listing sub-processes")
		return nil, fmt.Errorf("listing sub-processes: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *RepositoryImpl) ListFocused(ctx context.Context) ([]SubProcess, error) {
	rows, err := r.db.QueryContext(ctx,
		selectQuery+" WHERE sp.focus = ? AND sp.status = ? ORDER BY sp.created_at DESC", true, StatusPending)
	if err != nil {
		log.WithError(err).Error("Error listing focused sub-processes")
		return nil, fmt.Errorf("listing focused sub-processes: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// ShiftSortOrders makes room at fromOrder by pushing every sibling at or
// after it one position down. excludeID keeps the row being repositioned
// out of the shift.
func (r *RepositoryImpl) ShiftSortOrders(ctx context.Context, goalID int, fromOrder int, excludeID int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sub_process SET sort_order = sort_order + 1 WHERE goal_id = ? AND sort_order >= ? AND id != ?",
		goalID, fromOrder, excludeID)
	if err != nil {
		log.WithError(err).Error("Error shifting sub-process order")
		return fmt.Errorf("shifting sub-process order: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) SetStatusForGoal(ctx context.Context, goalID int, status Status, completedAt *time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sub_process SET status = ?, completed_at = ?, updated_at = ? WHERE goal_id = ?",
		status, formatCompletedAt(completedAt), utils.FormatTime(time.Now()), goalID)
	if err != nil {
		log.WithError(err).Error("Error updating sub-process statuses")
		return fmt.Errorf("updating sub-process statuses: %w", err)
	}
	return nil
}

func collect(rows *sql.Rows) ([]SubProcess, error) {
	var items []SubProcess
	for rows.Next() {
		sp, err := scanSubProcess(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning sub-process")
			return nil, fmt.Errorf("scanning sub-process: %w", err)
		}
		items = append(items, sp)
	}
	return items, rows.Err()
}

func scanSubProcess(scan func(...any) error) (SubProcess, error) {
	var sp SubProcess
	var estimated string
	var completedAt sql.NullString
	var createdAt, updatedAt string
	if err := scan(&sp.ID, &sp.GoalID, &sp.GoalName, &sp.Name, &estimated, &sp.Status,
		&sp.Focus, &sp.SortOrder, &completedAt, &createdAt, &updatedAt); err != nil {
		return SubProcess{}, err
	}
	var err error
	if sp.EstimatedDays, err = decimal.NewFromString(estimated); err != nil {
		return SubProcess{}, fmt.Errorf("parsing estimated days: %w", err)
	}
	if completedAt.Valid {
		t, err := utils.ParseTime(completedAt.String)
		if err != nil {
			return SubProcess{}, err
		}
		sp.CompletedAt = &t
	}
	if sp.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return SubProcess{}, err
	}
	if sp.UpdatedAt, err = utils.ParseTime(updatedAt); err != nil {
		return SubProcess{}, err
	}
	return sp, nil
}

func formatCompletedAt(t *time.Time) any {
	if t == nil {
		return nil
	}
	return utils.FormatTime(*t)
}
