package workupdate

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
	Store(ctx context.Context, wu WorkUpdate) (WorkUpdate, error)
	Get(ctx context.Context, id int) (WorkUpdate, error)
	Update(ctx context.Context, wu WorkUpdate) (WorkUpdate, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter Filter) ([]WorkUpdate, error)
	SummaryByHead(ctx context.Context) ([]HeadSummary, error)
	MonthlyCounts(ctx context.Context, year int) ([]MonthlyCount, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = `SELECT wu.id, wu.date, wu.head_id, COALESCE(wh.name, ''), wu.description, wu.created_at, wu.updated_at
	FROM work_update wu
	LEFT JOIN work_head wh ON wh.id = wu.head_id`

func (r *RepositoryImpl) Store(ctx context.Context, wu WorkUpdate) (WorkUpdate, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO work_update (date, head_id, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		utils.FormatDate(wu.Date), wu.HeadID, wu.Description,
		utils.FormatTime(wu.CreatedAt), utils.FormatTime(wu.UpdatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing work update")
		return WorkUpdate{}, fmt.Errorf("storing work update: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return WorkUpdate{}, fmt.Errorf("fetching work update id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (WorkUpdate, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE wu.id = ?", id)
	wu, err := scanWorkUpdate(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return WorkUpdate{}, ErrNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching work update")
		return WorkUpdate{}, fmt.Errorf("fetching work update: %w", err)
	}
	return wu, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, wu WorkUpdate) (WorkUpdate, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE work_update SET date = ?, head_id = ?, description = ?, updated_at = ? WHERE id = ?",
		utils.FormatDate(wu.Date), wu.HeadID, wu.Description, utils.FormatTime(wu.UpdatedAt), wu.ID)
	if err != nil {
		log.WithError(err).Error("Error updating work update")
		return WorkUpdate{}, fmt.Errorf("updating work update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return WorkUpdate{}, fmt.Errorf("updating work update: %w", err)
	}
	if affected == 0 {
		return WorkUpdate{}, ErrNotFound
	}
	return r.Get(ctx, wu.ID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM work_update WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting work update")
		return fmt.Errorf("deleting work update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting work update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, filter Filter) ([]WorkUpdate, error) {
	var conditions []string
	var args []any
	if !filter.From.IsZero() {
		conditions = append(conditions, "wu.date >= ?")
		args = append(args, utils.FormatDate(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "wu.date <= ?")
		args = append(args, utils.FormatDate(filter.To))
	}
	if filter.HeadID != nil {
		conditions = append(conditions, "wu.head_id = ?")
		args = append(args, *filter.HeadID)
	}
	if filter.Search != "" {
		conditions = append(conditions, "wu.description LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	query := selectQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY wu.date DESC, wu.id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Error listing work updates")
		return nil, fmt.Errorf("listing work updates: %w", err)
	}
	defer rows.Close()

	var updates []WorkUpdate
	for rows.Next() {
		wu, err := scanWorkUpdate(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning work update")
			return nil, fmt.Errorf("scanning work update: %w", err)
		}
		updates = append(updates, wu)
	}
	return updates, rows.Err()
}

func (r *RepositoryImpl) SummaryByHead(ctx context.Context) ([]HeadSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT wh.id, wh.name, COUNT(wu.id), COALESCE(MAX(wu.date), '')
		FROM work_head wh
		LEFT JOIN work_update wu ON wu.head_id = wh.id
		GROUP BY wh.id, wh.name
		ORDER BY wh.name ASC`)
	if err != nil {
		log.WithError(err).Error("Error summarizing work updates")
		return nil, fmt.Errorf("summarizing work updates: %w", err)
	}
	defer rows.Close()

	var summaries []HeadSummary
	for rows.Next() {
		var s HeadSummary
		var lastDate string
		if err := rows.Scan(&s.HeadID, &s.HeadName, &s.Count, &lastDate); err != nil {
			return nil, fmt.Errorf("scanning work update summary: %w", err)
		}
		if lastDate != "" {
			if s.LastDate, err = utils.ParseDate(lastDate); err != nil {
				return nil, err
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *RepositoryImpl) MonthlyCounts(ctx context.Context, year int) ([]MonthlyCount, error) {
	from := fmt.Sprintf("%04d-01-01", year)
	to := fmt.Sprintf("%04d-12-31", year)
	rows, err := r.db.QueryContext(ctx,
		`SELECT substr(date, 6, 2), COUNT(*)
		FROM work_update
		WHERE date >= ? AND date <= ?
		GROUP BY substr(date, 6, 2)`,
		from, to)
	if err != nil {
		log.WithError(err).Error("Error counting work updates")
		return nil, fmt.Errorf("counting work updates: %w", err)
	}
	defer rows.Close()

	byMonth := make(map[int]int)
	for rows.Next() {
		var month string
		var count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("scanning work update count: %w", err)
		}
		var m int
		if _, err := fmt.Sscanf(month, "%d", &m); err != nil {
			return nil, fmt.Errorf("parsing month: %w", err)
		}
		byMonth[m] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make([]MonthlyCount, 0, 12)
	for m := int(time.January); m <= int(time.December); m++ {
		counts = append(counts, MonthlyCount{Month: m, Count: byMonth[m]})
	}
	return counts, nil
}

func scanWorkUpdate(scan func(...any) error) (WorkUpdate, error) {
	var wu WorkUpdate
	var date string
	var headID sql.NullInt64
	var createdAt, updatedAt string
	if err := scan(&wu.ID, &date, &headID, &wu.HeadName, &wu.Description, &createdAt, &updatedAt); err != nil {
		return WorkUpdate{}, err
	}
	var err error
	if wu.Date, err = utils.ParseDate(date); err != nil {
		return WorkUpdate{}, err
	}
	if headID.Valid {
		id := int(headID.Int64)
		wu.HeadID = &id
	}
	if wu.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return WorkUpdate{}, err
	}
	if wu.UpdatedAt, err = utils.ParseTime(updatedAt); err != nil {
		return WorkUpdate{}, err
	}
	return wu, nil
}
