package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daylog/daylog/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, category Category) (int, error)
	GetAll(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (Category, error)
	Update(ctx context.Context, category Category) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Store(ctx context.Context, category Category) (int, error) {
	query := `INSERT INTO category (name, color) VALUES (?, ?)`
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Color)
	if err != nil {
		err := fmt.Errorf("could not store category: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, color, created_at FROM category ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Category, error) {
	query := `SELECT id, name, color, created_at FROM category WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	category, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	return category, err
}

func (r *RepositoryImpl) Update(ctx context.Context, category Category) (bool, error) {
	query := `UPDATE category SET name = ?, color = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, category.Name, category.Color, category.ID)
	if err != nil {
		err := fmt.Errorf("could not update category: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM category WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		err := fmt.Errorf("could not delete category: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func scanCategory(scan func(...any) error) (Category, error) {
	var category Category
	var createdAt string
	if err := scan(&category.ID, &category.Name, &category.Color, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, err
		}
		err := fmt.Errorf("could not scan category: %w", err)
		log.Error(err)
		return Category{}, err
	}
	var err error
	if category.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Category{}, err
	}
	return category, nil
}
