package workhead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, wh WorkHead) (WorkHead, error)
	Get(ctx context.Context, id int) (WorkHead, error)
	Update(ctx context.Context, wh WorkHead) (WorkHead, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, activeOnly bool) ([]WorkHead, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = "SELECT id, name, description, is_active, created_at, updated_at FROM work_head"

func (r *RepositoryImpl) Store(ctx context.Context, wh WorkHead) (WorkHead, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO work_head (name, description, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		wh.Name, wh.Description, wh.IsActive, utils.FormatTime(wh.CreatedAt), utils.FormatTime(wh.UpdatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing work head")
		return WorkHead{}, fmt.Errorf("storing work head: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return WorkHead{}, fmt.Errorf("fetching work head id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (WorkHead, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE id = ?", id)
	wh, err := scanWorkHead(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkHead{}, ErrNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching work head")
		return WorkHead{}, fmt.Errorf("fetching work head: %w", err)
	}
	return wh, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, wh WorkHead) (WorkHead, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE work_head SET name = ?, description = ?, is_active = ?, updated_at = ? WHERE id = ?",
		wh.Name, wh.Description, wh.IsActive, utils.FormatTime(wh.UpdatedAt), wh.ID)
	if err != nil {
		log.WithError(err).Error("Error updating work head")
		return WorkHead{}, fmt.Errorf("updating work head: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WorkHead{}, fmt.Errorf("updating work head: %w", err)
	}
	if affected == 0 {
		return WorkHead{}, ErrNotFound
	}
	return r.Get(ctx, wh.ID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM work_head WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting work head")
		return fmt.Errorf("deleting work head: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting work head: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, activeOnly bool) ([]WorkHead, error) {
	query := selectQuery
	if activeOnly {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		log.WithError(err).Error("Error listing work heads")
		return nil, fmt.Errorf("listing work heads: %w", err)
	}
	defer rows.Close()

	var heads []WorkHead
	for rows.Next() {
		wh, err := scanWorkHead(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning work head")
			return nil, fmt.Errorf("scanning work head: %w", err)
		}
		heads = append(heads, wh)
	}
	return heads, rows.Err()
}

func scanWorkHead(scan func(...any) error) (WorkHead, error) {
	var wh WorkHead
	var createdAt, updatedAt string
	if err := scan(&wh.ID, &wh.Name, &wh.Description, &wh.IsActive, &createdAt, &updatedAt); err != nil {
		return WorkHead{}, err
	}
	var err error
	if wh.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return WorkHead{}, err
	}
	if wh.UpdatedAt, err = utils.ParseTime(updatedAt); err != nil {
		return WorkHead{}, err
	}
	return wh, nil
}
