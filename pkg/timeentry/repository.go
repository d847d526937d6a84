package timeentry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/daylog/daylog/internal/utils"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, entry TimeEntry) (int, error)
	Get(ctx context.Context, id int) (TimeEntry, error)
	Update(ctx context.Context, entry TimeEntry) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// List returns entries whose start time falls inside [from, to],
	// newest first. Zero bounds are unbounded.
	List(ctx context.Context, from, to time.Time) ([]TimeEntry, error)
	// FindOpen returns entries without an end time, newest first.
	FindOpen(ctx context.Context) ([]TimeEntry, error)
	// FindClosedBetween returns closed entries starting inside [from, to],
	// ordered by start time ascending.
	FindClosedBetween(ctx context.Context, from, to time.Time) ([]TimeEntry, error)
	// FindClosedForActivity returns all closed entries of an activity except excludeID.
	FindClosedForActivity(ctx context.Context, activityID int, excludeID int) ([]TimeEntry, error)
	// FindRecentlyFinished returns up to limit entries finished at or after since,
	// most recently finished first.
	FindRecentlyFinished(ctx context.Context, since time.Time, limit int) ([]TimeEntry, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = `
	SELECT e.id, e.activity_id, a.name, e.start_time, e.end_time, e.duration_minutes,
	       e.notes, e.is_manually_entered, e.sync_token, e.created_at, e.updated_at
	FROM time_entry e
	JOIN activity a ON a.id = e.activity_id`

func (r *RepositoryImpl) Store(ctx context.Context, entry TimeEntry) (int, error) {
	query := `INSERT INTO time_entry
			(activity_id, start_time, end_time, duration_minutes, notes, is_manually_entered, sync_token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := utils.FormatTime(time.Now())
	result, err := r.db.ExecContext(ctx, query,
		entry.ActivityID,
		utils.FormatTime(entry.StartTime),
		formatEndTime(entry.EndTime),
		durationParam(entry),
		entry.Notes,
		entry.IsManuallyEntered,
		entry.SyncToken,
		now,
		now,
	)
	if err != nil {
		err := fmt.Errorf("could not store time entry: %w", err)
		log.Error(err)
		return 0, err
	}
	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("could not retrieve last insert id: %w", err)
	}
	return int(lastInsertID), nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (TimeEntry, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE e.id = ?", id)
	entry, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return TimeEntry{}, ErrNotFound
	}
	return entry, err
}

func (r *RepositoryImpl) Update(ctx context.Context, entry TimeEntry) (bool, error) {
	query := `UPDATE time_entry SET
			activity_id = ?, start_time = ?, end_time = ?, duration_minutes = ?,
			notes = ?, is_manually_entered = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		entry.ActivityID,
		utils.FormatTime(entry.StartTime),
		formatEndTime(entry.EndTime),
		durationParam(entry),
		entry.Notes,
		entry.IsManuallyEntered,
		utils.FormatTime(time.Now()),
		entry.ID,
	)
	if err != nil {
		err := fmt.Errorf("could not update time entry: %w", err)
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
	result, err := r.db.ExecContext(ctx, `DELETE FROM time_entry WHERE id = ?`, id)
	if err != nil {
		err := fmt.Errorf("could not delete time entry: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) List(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	query := selectQuery + " WHERE 1=1"
	args := []any{}
	if !from.IsZero() {
		query += " AND e.start_time >= ?"
		args = append(args, utils.FormatTime(from))
	}
	if !to.IsZero() {
		query += " AND e.start_time <= ?"
		args = append(args, utils.FormatTime(to))
	}
	query += " ORDER BY e.start_time DESC"
	return r.queryEntries(ctx, query, args...)
}

func (r *RepositoryImpl) FindOpen(ctx context.Context) ([]TimeEntry, error) {
	return r.queryEntries(ctx, selectQuery+" WHERE e.end_time IS NULL ORDER BY e.start_time DESC")
}

func (r *RepositoryImpl) FindClosedBetween(ctx context.Context, from, to time.Time) ([]TimeEntry, error) {
	query := selectQuery + ` WHERE e.end_time IS NOT NULL AND e.start_time >= ? AND e.start_time <= ?
		ORDER BY e.start_time`
	return r.queryEntries(ctx, query, utils.FormatTime(from), utils.FormatTime(to))
}

func (r *RepositoryImpl) FindClosedForActivity(ctx context.Context, activityID int, excludeID int) ([]TimeEntry, error) {
	query := selectQuery + ` WHERE e.end_time IS NOT NULL AND e.activity_id = ? AND e.id != ?
		ORDER BY e.start_time`
	return r.queryEntries(ctx, query, activityID, excludeID)
}

func (r *RepositoryImpl) FindRecentlyFinished(ctx context.Context, since time.Time, limit int) ([]TimeEntry, error) {
	query := selectQuery + ` WHERE e.end_time >= ? ORDER BY e.end_time DESC LIMIT ?`
	return r.queryEntries(ctx, query, utils.FormatTime(since), limit)
}

func (r *RepositoryImpl) queryEntries(ctx context.Context, query string, args ...any) ([]TimeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanEntry(scan func(...any) error) (TimeEntry, error) {
	var entry TimeEntry
	var startTime, createdAt, updatedAt string
	var endTime, notes, syncToken sql.NullString
	var duration sql.NullInt64
	if err := scan(
		&entry.ID,
		&entry.ActivityID,
		&entry.ActivityName,
		&startTime,
		&endTime,
		&duration,
		&notes,
		&entry.IsManuallyEntered,
		&syncToken,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TimeEntry{}, err
		}
		err := fmt.Errorf("could not scan time entry: %w", err)
		log.Error(err)
		return TimeEntry{}, err
	}
	var err error
	if entry.StartTime, err = utils.ParseTime(startTime); err != nil {
		return TimeEntry{}, err
	}
	if endTime.Valid {
		t, err := utils.ParseTime(endTime.String)
		if err != nil {
			return TimeEntry{}, err
		}
		entry.EndTime = &t
	}
	entry.DurationMinutes = int(duration.Int64)
	entry.Notes = notes.String
	entry.SyncToken = syncToken.String
	if entry.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return TimeEntry{}, err
	}
	if entry.UpdatedAt, err = utils.ParseTime(updatedAt); err != nil {
		return TimeEntry{}, err
	}
	return entry, nil
}

func formatEndTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return utils.FormatTime(*t)
}

func durationParam(entry TimeEntry) any {
	if entry.EndTime == nil {
		return nil
	}
	return entry.DurationMinutes
}
