package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/daylog/daylog/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, activity Activity) (int, error)
	GetAll(ctx context.Context, activeOnly bool) ([]Activity, error)
	Get(ctx context.Context, id int) (Activity, error)
	Update(ctx context.Context, activity Activity) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = `
	SELECT a.id, a.name, a.description, a.is_active, a.created_at,
	       c.id, c.name, c.color
	FROM activity a
	LEFT JOIN category c ON c.id = a.category_id`

func (r *RepositoryImpl) Store(ctx context.Context, activity Activity) (int, error) {
	query := `INSERT INTO activity (name, description, is_active, category_id) VALUES (?, ?, ?, ?)`
	var categoryId any
	if activity.Category != nil {
		categoryId = activity.Category.ID
	}
	result, err := r.db.ExecContext(ctx, query, activity.Name, activity.Description, activity.IsActive, categoryId)
	if err != nil {
		err := fmt.Errorf("could not store activity: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve last insert id: %w", err)
	}
	return int(lastInsertID), nil
}

func (r *RepositoryImpl) GetAll(ctx context.Context, activeOnly bool) ([]Activity, error) {
	query := selectQuery
	if activeOnly {
		query += " WHERE a.is_active = 1"
	}
	query += " ORDER BY a.name"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query activities: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		activity, err := scanActivity(rows.Scan)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Activity, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE a.id = ?", id)
	activity, err := scanActivity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	return activity, err
}

func (r *RepositoryImpl) Update(ctx context.Context, activity Activity) (bool, error) {
	query := `UPDATE activity SET name = ?, description = ?, is_active = ?, category_id = ? WHERE id = ?`
	var categoryId any
	if activity.Category != nil {
		categoryId = activity.Category.ID
	}
	result, err := r.db.ExecContext(ctx, query, activity.Name, activity.Description, activity.IsActive, categoryId, activity.ID)
	if err != nil {
		err := fmt.Errorf("could not update activity: %w", err)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity WHERE id = ?`, id)
	if err != nil {
		err := fmt.Errorf("could not delete activity: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func scanActivity(scan func(...any) error) (Activity, error) {
	var activity Activity
	var description sql.NullString
	var createdAt string
	var categoryId sql.NullInt64
	var categoryName, categoryColor sql.NullString
	if err := scan(
		&activity.ID,
		&activity.Name,
		&description,
		&activity.IsActive,
		&createdAt,
		&categoryId,
		&categoryName,
		&categoryColor,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Activity{}, err
		}
		err := fmt.Errorf("could not scan activity: %w", err)
		log.Error(err)
		return Activity{}, err
	}
	activity.Description = description.String
	var err error
	if activity.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Activity{}, err
	}
	if categoryId.Valid {
		activity.Category = &CategoryRef{
			ID:    int(categoryId.Int64),
			Name:  categoryName.String,
			Color: categoryColor.String,
		}
	}
	return activity, nil
}
