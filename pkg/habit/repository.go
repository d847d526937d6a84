package habit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/daylog/daylog/internal/utils"
)

type Repository interface {
	Store(ctx context.Context, h Habit) (Habit, error)
	Get(ctx context.Context, id int) (Habit, error)
	Update(ctx context.Context, h Habit) (Habit, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]Habit, error)
	ListWithActiveReminder(ctx context.Context) ([]Habit, error)
	StoreLog(ctx context.Context, l Log) (Log, error)
	GetLog(ctx context.Context, id int) (Log, error)
	UpdateLog(ctx context.Context, l Log) (Log, error)
	DeleteLog(ctx context.Context, habitID int, date time.Time) error
	DeleteLogByID(ctx context.Context, id int) error
	FindLog(ctx context.Context, habitID int, date time.Time) (Log, error)
	LogsForHabit(ctx context.Context, habitID int) ([]Log, error)
	LogsBetween(ctx context.Context, habitID int, from, to time.Time) ([]Log, error)
	AllLogs(ctx context.Context) ([]Log, error)
	AllLogsBetween(ctx context.Context, from, to time.Time) ([]Log, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectQuery = `SELECT id, name, description, frequency, reminder_time, is_reminder_active, created_at FROM habit`

const selectLogQuery = `SELECT id, habit_id, log_date, completed_at, notes FROM habit_log`

func (r *RepositoryImpl) Store(ctx context.Context, h Habit) (Habit, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO habit (name, description, frequency, reminder_time, is_reminder_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.Name, h.Description, h.Frequency, nullable(h.ReminderTime), h.IsReminderActive,
		utils.FormatTime(h.CreatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing habit")
		return Habit{}, fmt.Errorf("storing habit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Habit{}, fmt.Errorf("fetching habit id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Habit, error) {
	row := r.db.QueryRowContext(ctx, selectQuery+" WHERE id = ?", id)
	h, err := scanHabit(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Habit{}, ErrNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching habit")
		return Habit{}, fmt.Errorf("fetching habit: %w", err)
	}
	return h, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, h Habit) (Habit, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE habit SET name = ?, description = ?, frequency = ?, reminder_time = ?, is_reminder_active = ?
		WHERE id = ?`,
		h.Name, h.Description, h.Frequency, nullable(h.ReminderTime), h.IsReminderActive, h.ID)
	if err != nil {
		log.WithError(err).Error("Error updating habit")
		return Habit{}, fmt.Errorf("updating habit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Habit{}, fmt.Errorf("updating habit: %w", err)
	}
	if affected == 0 {
		return Habit{}, ErrNotFound
	}
	return r.Get(ctx, h.ID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM habit WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting habit")
		return fmt.Errorf("deleting habit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx, selectQuery+" ORDER BY name ASC")
	if err != nil {
		log.WithError(err).Error("Error listing habits")
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()
	return collectHabits(rows)
}

func (r *RepositoryImpl) ListWithActiveReminder(ctx context.Context) ([]Habit, error) {
	rows, err := r.db.QueryContext(ctx,
		selectQuery+" WHERE is_reminder_active = true ORDER BY reminder_time ASC")
	if err != nil {
		log.WithError(err).Error("Error listing habits with reminders")
		return nil, fmt.Errorf("listing habits with reminders: %w", err)
	}
	defer rows.Close()
	return collectHabits(rows)
}

func (r *RepositoryImpl) StoreLog(ctx context.Context, l Log) (Log, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO habit_log (habit_id, log_date, completed_at, notes) VALUES (?, ?, ?, ?)",
		l.HabitID, utils.FormatDate(l.LogDate), utils.FormatTime(l.CompletedAt), nullable(l.Notes))
	if err != nil {
		log.WithError(err).Error("Error storing habit log")
		return Log{}, fmt.Errorf("storing habit log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Log{}, fmt.Errorf("fetching habit log id: %w", err)
	}
	l.ID = int(id)
	return l, nil
}

func (r *RepositoryImpl) GetLog(ctx context.Context, id int) (Log, error) {
	row := r.db.QueryRowContext(ctx, selectLogQuery+" WHERE id = ?", id)
	l, err := scanLog(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Log{}, ErrLogNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching habit log")
		return Log{}, fmt.Errorf("fetching habit log: %w", err)
	}
	return l, nil
}

func (r *RepositoryImpl) UpdateLog(ctx context.Context, l Log) (Log, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE habit_log SET log_date = ?, notes = ? WHERE id = ?",
		utils.FormatDate(l.LogDate), nullable(l.Notes), l.ID)
	if err != nil {
		log.WithError(err).Error("Error updating habit log")
		return Log{}, fmt.Errorf("updating habit log: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Log{}, fmt.Errorf("updating habit log: %w", err)
	}
	if affected == 0 {
		return Log{}, ErrLogNotFound
	}
	return r.GetLog(ctx, l.ID)
}

func (r *RepositoryImpl) DeleteLog(ctx context.Context, habitID int, date time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM habit_log WHERE habit_id = ? AND log_date = ?", habitID, utils.FormatDate(date))
	if err != nil {
		log.WithError(err).Error("Error deleting habit log")
		return fmt.Errorf("deleting habit log: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting habit log: %w", err)
	}
	if affected == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (r *RepositoryImpl) DeleteLogByID(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM habit_log WHERE id = ?", id)
	if err != nil {
		log.WithError(err).Error("Error deleting habit log")
		return fmt.Errorf("deleting habit log: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting habit log: %w", err)
	}
	if affected == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (r *RepositoryImpl) FindLog(ctx context.Context, habitID int, date time.Time) (Log, error) {
	row := r.db.QueryRowContext(ctx,
		selectLogQuery+" WHERE habit_id = ? AND log_date = ?", habitID, utils.FormatDate(date))
	l, err := scanLog(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Log{}, ErrLogNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching habit log")
		return Log{}, fmt.Errorf("fetching habit log: %w", err)
	}
	return l, nil
}

func (r *RepositoryImpl) LogsForHabit(ctx context.Context, habitID int) ([]Log, error) {
	rows, err := r.db.QueryContext(ctx,
		selectLogQuery+" WHERE habit_id = ? ORDER BY log_date DESC", habitID)
	if err != nil {
		log.WithError(err).Error("Error listing habit logs")
		return nil, fmt.Errorf("listing habit logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *RepositoryImpl) LogsBetween(ctx context.Context, habitID int, from, to time.Time) ([]Log, error) {
	rows, err := r.db.QueryContext(ctx,
		selectLogQuery+" WHERE habit_id = ? AND log_date >= ? AND log_date <= ? ORDER BY log_date DESC",
		habitID, utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		log.WithError(err).Error("Error listing habit logs")
		return nil, fmt.Errorf("listing habit logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *RepositoryImpl) AllLogs(ctx context.Context) ([]Log, error) {
	rows, err := r.db.QueryContext(ctx, selectLogQuery+" ORDER BY log_date DESC")
	if err != nil {
		log.WithError(err).Error("Error listing habit logs")
		return nil, fmt.Errorf("listing habit logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

func (r *RepositoryImpl) AllLogsBetween(ctx context.Context, from, to time.Time) ([]Log, error) {
	rows, err := r.db.QueryContext(ctx,
		selectLogQuery+" WHERE log_date >= ? AND log_date <= ? ORDER BY log_date DESC",
		utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		log.WithError(err).Error("Error listing habit logs")
		return nil, fmt.Errorf("listing habit logs: %w", err)
	}
	defer rows.Close()
	return collectLogs(rows)
}

func collectHabits(rows *sql.Rows) ([]Habit, error) {
	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning habit")
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func collectLogs(rows *sql.Rows) ([]Log, error) {
	var logs []Log
	for rows.Next() {
		l, err := scanLog(rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning habit log")
			return nil, fmt.Errorf("scanning habit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func scanHabit(scan func(...any) error) (Habit, error) {
	var h Habit
	var description, reminderTime sql.NullString
	var createdAt string
	if err := scan(&h.ID, &h.Name, &description, &h.Frequency, &reminderTime, &h.IsReminderActive, &createdAt); err != nil {
		return Habit{}, err
	}
	h.Description = description.String
	h.ReminderTime = reminderTime.String
	var err error
	if h.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Habit{}, err
	}
	return h, nil
}

func scanLog(scan func(...any) error) (Log, error) {
	var l Log
	var logDate, completedAt string
	var notes sql.NullString
	if err := scan(&l.ID, &l.HabitID, &logDate, &completedAt, &notes); err != nil {
		return Log{}, err
	}
	l.Notes = notes.String
	var err error
	if l.LogDate, err = utils.ParseDate(logDate); err != nil {
		return Log{}, err
	}
	if l.CompletedAt, err = utils.ParseTime(completedAt); err != nil {
		return Log{}, err
	}
	return l, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
