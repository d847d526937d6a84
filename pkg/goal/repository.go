package goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, g Goal) (Goal, error)
	Get(ctx context.Context, id int) (Goal, error)
	Update(ctx context.Context, g Goal) (Goal, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, status *Status) ([]Goal, error)
	ShiftSortOrders(ctx context.Context, fromOrder int, excludeID int) error
	SetSortOrder(ctx context.Context, id int, sortOrder int) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = "SELECT id, name, status, sort_order, created_at, updated_at FROM goal"

func (r *RepositoryImpl) Store(ctx context.Context, g Goal) (Goal, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO goal (name, status, sort_order, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		g.Name, g.Status, g.SortOrder, utils.FormatTime(g.CreatedAt), utils.FormatTime(g.UpdatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing goal")
		return Goal{}, fmt.Errorf("storing goal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Goal{}, fmt.Errorf("fetching goal id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Goal, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE id = ?", id)
	g, err := scanGoal(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching goal")
		return Goal{}, fmt.Errorf("fetching goal: %w", err)
	}
	return g, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, g Goal) (Goal, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE goal SET name = ?, status = ?, sort_order = ?, updated_at = ? WHERE id = ?",
		g.Name, g.Status, g.SortOrder, utils.FormatTime(g.UpdatedAt), g.ID)
	if err != nil {
		log.WithError(err).Error("Error updating goal")
		return Goal{}, fmt.Errorf("updating goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Goal{}, fmt.Errorf("updating goal: %w", err)
	}
	if affected == 0 {
		return Goal{}, ErrNotFound
	}
	return r.Get(ctx, g.ID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM goal WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting goal")
		return fmt.Errorf("deleting goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, status *Status) ([]Goal, error) {
	query := selectQuery
	var args []any
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, *status)
	}
	query += " ORDER BY sort_order ASC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Error listing goals")
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning goal")
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *RepositoryImpl) ShiftSortOrders(ctx context.Context, fromOrder int, excludeID int) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE goal SET sort_order = sort_order + 1 WHERE sort_order >= ? AND id != ?",
		fromOrder, excludeID)
	if err != nil {
		log.WithError(err).Error("Error shifting goal order")
		return fmt.Errorf("shifting goal order: %w", err)
	}
	return nil
}

// SetSortOrder writes a single goal's position directly. A missing id
// is not an error so batch reorders tolerate stale entries.
func (r *RepositoryImpl) SetSortOrder(ctx context.Context, id int, sortOrder int) error {
	_, err := r.db.ExecContext(ctx, "UPDATE goal SET sort_order = ? WHERE id = ?", sortOrder, id)
	if err != nil {
		log.WithError(err).Error("Error setting goal order")
		return fmt.Errorf("setting goal order: %w", err)
	}
	return nil
}

func scanGoal(scan func(...any) error) (Goal, error) {
	var g Goal
	var createdAt, updatedAt string
	if err := scan(&g.ID, &g.Name, &g.Status, &g.SortOrder, &createdAt, &updatedAt); err != nil {
		return Goal{}, err
	}
	var err error
	if g.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Goal{}, err
	}
	if g.UpdatedAt, err = utils.ParseTime(updatedAt); err != nil {
		return Goal{}, err
	}
	return g, nil
}
