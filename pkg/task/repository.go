package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, t Task) (Task, error)
	Get(ctx context.Context, id int) (Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter Filter) ([]Task, error)
	CompletedBetween(ctx context.Context, from, to time.Time) ([]Task, error)
	CountByStatus(ctx context.Context) (StatusSummary, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = `SELECT id, title, description, status, priority, task_date, task_time,
	estimated_time, estimate_unit, completed_at, created_at, updated_at FROM task`

func (r *RepositoryImpl) Store(ctx context.Context, t Task) (Task, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO task (title, description, status, priority, task_date, task_time,
			estimated_time, estimate_unit, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Status, t.Priority, utils.FormatDate(t.TaskDate), nullable(t.TaskTime),
		t.EstimatedTime, nullable(t.EstimateUnit), formatCompletedAt(t.CompletedAt),
		utils.FormatTime(t.CreatedAt), utils.FormatTime(t.UpdatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing task")
		return Task{}, fmt.Errorf("storing task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("fetching task id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Task, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE id = ?", id)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching task")
		return Task{}, fmt.Errorf("fetching task: %w", err)
	}
	return t, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, t Task) (Task, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE task SET title = ?, description = ?, status = ?, priority = ?, task_date = ?,
			task_time = ?, estimated_time = ?, estimate_unit = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, t.Status, t.Priority, utils.FormatDate(t.TaskDate), nullable(t.TaskTime),
		t.EstimatedTime, nullable(t.EstimateUnit), formatCompletedAt(t.CompletedAt),
		utils.FormatTime(t.UpdatedAt), t.ID)
	if err != nil {
		log.WithError(err).Error("Error updating task")
		return Task{}, fmt.Errorf("updating task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Task{}, fmt.Errorf("updating task: %w", err)
	}
	if affected == 0 {
		return Task{}, ErrNotFound
	}
	return r.Get(ctx, t.ID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM task WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting task")
		return fmt.Errorf("deleting task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, filter Filter) ([]Task, error) {
	var conditions []string
	var args []any
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *filter.Priority)
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "task_date >= ?")
		args = append(args, utils.FormatDate(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "task_date <= ?")
		args = append(args, utils.FormatDate(filter.To))
	}
	if filter.Search != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	query := selectQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY task_date ASC, task_time ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Error listing tasks")
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *RepositoryImpl) CompletedBetween(ctx context.Context, from, to time.Time) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx,
		selectQuery+` WHERE status = ? AND completed_at >= ? AND completed_at <= ?
		ORDER BY completed_at ASC`,
		StatusCompleted, utils.FormatTime(from), utils.FormatTime(to))
	if err != nil {
		log.WithError(err).Error("Error listing completed tasks")
		return nil, fmt.Errorf("listing completed tasks: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *RepositoryImpl) CountByStatus(ctx context.Context) (StatusSummary, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM task GROUP BY status")
	if err != nil {
		log.WithError(err).Error("Error counting tasks")
		return StatusSummary{}, fmt.Errorf("counting tasks: %w", err)
	}
	defer rows.Close()

	var summary StatusSummary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return StatusSummary{}, fmt.Errorf("scanning task count: %w", err)
		}
		switch status {
		case StatusPending:
			summary.Pending = count
		case StatusInProgress:
			summary.InProgress = count
		case StatusCompleted:
			summary.Completed = count
		case StatusCancelled:
			summary.Cancelled = count
		}
		summary.Total += count
	}
	return summary, rows.Err()
}

func collect(rows *sql.Rows) ([]Task, error) {
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning task")
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func scanTask(scan func(...any) error) (Task, error) {
	var t Task
	var description, taskTime, estimateUnit, completedAt sql.NullString
	var estimatedTime sql.NullInt64
	var taskDate, createdAt, updatedAt string
	if err := scan(&t.ID, &t.Title, &description, &t.Status, &t.Priority, &taskDate, &taskTime,
		&estimatedTime, &estimateUnit, &completedAt, &createdAt, &updatedAt); err != nil {
		return Task{}, err
	}
	t.Description = description.String
	t.TaskTime = taskTime.String
	t.EstimateUnit = estimateUnit.String
	if estimatedTime.Valid {
		v := int(estimatedTime.Int64)
		t.EstimatedTime = &v
	}
	var err error
	if t.TaskDate, err = utils.ParseDate(taskDate); err != nil {
		return Task{}, err
	}
	if completedAt.Valid {
		at, err := utils.ParseTime(completedAt.String)
		if err != nil {
			return Task{}, err
		}
		t.CompletedAt = &at
	}
	if t.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Task{}, err
	}
	if t.UpdatedAt, err = utils.ParseTime(updatedAt); err != nil {
		return Task{}, err
	}
	return t, nil
}

func formatCompletedAt(t *time.Time) any {
	if t == nil {
		return nil
	}
	return utils.FormatTime(*t)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
