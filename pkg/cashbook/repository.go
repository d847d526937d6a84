package cashbook

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
	StoreGroup(ctx context.Context, g Group) (Group, error)
	GetGroup(ctx context.Context, kind Kind, id int) (Group, error)
	UpdateGroup(ctx context.Context, g Group) (Group, error)
	DeleteGroup(ctx context.Context, kind Kind, id int) error
	ListGroups(ctx context.Context, kind Kind) ([]Group, error)
	CountEntriesForGroup(ctx context.Context, kind Kind, groupID int) (int, error)
	StoreEntry(ctx context.Context, e Entry) (Entry, error)
	GetEntry(ctx context.Context, kind Kind, id int) (Entry, error)
	UpdateEntry(ctx context.Context, e Entry) (Entry, error)
	DeleteEntry(ctx context.Context, kind Kind, id int) error
	ListEntries(ctx context.Context, kind Kind, filter Filter) ([]Entry, error)
	GroupTotals(ctx context.Context, kind Kind, from, to time.Time) ([]GroupTotal, error)
	SumEntries(ctx context.Context, kind Kind, from, to time.Time) (decimal.Decimal, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func entryTable(kind Kind) string {
	if kind == KindIncome {
		return "income"
	}
	return "expense"
}

func groupTable(kind Kind) string {
	if kind == KindIncome {
		return "income_group"
	}
	return "expense_group"
}

func (r *RepositoryImpl) StoreGroup(ctx context.Context, g Group) (Group, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", groupTable(g.Kind)), g.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return Group{}, ErrDuplicateGroup
		}
		log.WithError(err).Error("Error storing group")
		return Group{}, fmt.Errorf("storing group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Group{}, fmt.Errorf("fetching group id: %w", err)
	}
	g.ID = int(id)
	return g, nil
}

func (r *RepositoryImpl) GetGroup(ctx context.Context, kind Kind, id int) (Group, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id, name FROM %s WHERE id = ?", groupTable(kind)), id)
	g := Group{Kind: kind}
	err := row.Scan(&g.ID, &g.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Group{}, ErrGroupNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching group")
		return Group{}, fmt.Errorf("fetching group: %w", err)
	}
	return g, nil
}

func (r *RepositoryImpl) UpdateGroup(ctx context.Context, g Group) (Group, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET name = ? WHERE id = ?", groupTable(g.Kind)), g.Name, g.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return Group{}, ErrDuplicateGroup
		}
		log.WithError(err).Error("Error updating group")
		return Group{}, fmt.Errorf("updating group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Group{}, fmt.Errorf("updating group: %w", err)
	}
	if affected == 0 {
		return Group{}, ErrGroupNotFound
	}
	return g, nil
}

func (r *RepositoryImpl) DeleteGroup(ctx context.Context, kind Kind, id int) error {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", groupTable(kind)), id)
	if err != nil {
		log.WithError(err).Error("Error deleting group")
		return fmt.Errorf("deleting group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	if affected == 0 {
		return ErrGroupNotFound
	}
	return nil
}

func (r *RepositoryImpl) ListGroups(ctx context.Context, kind Kind) ([]Group, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, name FROM %s ORDER BY name ASC", groupTable(kind)))
	if err != nil {
		log.WithError(err).Error("Error listing groups")
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		g := Group{Kind: kind}
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *RepositoryImpl) CountEntriesForGroup(ctx context.Context, kind Kind, groupID int) (int, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE group_id = ?", entryTable(kind)), groupID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

func (r *RepositoryImpl) StoreEntry(ctx context.Context, e Entry) (Entry, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (date, name, group_id, amount, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`, entryTable(e.Kind)),
		utils.FormatDate(e.Date), e.Name, e.GroupID, e.Amount.String(), e.Notes,
		utils.FormatTime(e.CreatedAt))
	if err != nil {
		log.WithError(err).Error("Error storing entry")
		return Entry{}, fmt.Errorf("storing entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("fetching entry id: %w", err)
	}
	return r.GetEntry(ctx, e.Kind, int(id))
}

func (r *RepositoryImpl) GetEntry(ctx context.Context, kind Kind, id int) (Entry, error) {
	row := r.db.QueryRowContext(ctx, selectEntry(kind)+" WHERE e.id = ?", id)
	e, err := scanEntry(kind, row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrEntryNotFound
	}
	if err != nil {
		log.WithError(err).Error("Error fetching entry")
		return Entry{}, fmt.Errorf("fetching entry: %w", err)
	}
	return e, nil
}

func (r *RepositoryImpl) UpdateEntry(ctx context.Context, e Entry) (Entry, error) {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET date = ?, name = ?, group_id = ?, amount = ?, notes = ? WHERE id = ?",
			entryTable(e.Kind)),
		utils.FormatDate(e.Date), e.Name, e.GroupID, e.Amount.String(), e.Notes, e.ID)
	if err != nil {
		log.WithError(err).Error("Error updating entry")
		return Entry{}, fmt.Errorf("updating entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Entry{}, fmt.Errorf("updating entry: %w", err)
	}
	if affected == 0 {
		return Entry{}, ErrEntryNotFound
	}
	return r.GetEntry(ctx, e.Kind, e.ID)
}

func (r *RepositoryImpl) DeleteEntry(ctx context.Context, kind Kind, id int) error {
	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", entryTable(kind)), id)
	if err != nil {
		log.WithError(err).Error("Error deleting entry")
		return fmt.Errorf("deleting entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *RepositoryImpl) ListEntries(ctx context.Context, kind Kind, filter Filter) ([]Entry, error) {
	var conditions []string
	var args []any
	if !filter.From.IsZero() {
		conditions = append(conditions, "e.date >= ?")
		args = append(args, utils.FormatDate(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "e.date <= ?")
		args = append(args, utils.FormatDate(filter.To))
	}
	if filter.GroupID != nil {
		conditions = append(conditions, "e.group_id = ?")
		args = append(args, *filter.GroupID)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(e.name LIKE ? OR e.notes LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}
	query := selectEntry(kind)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.date DESC, e.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Error listing entries")
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(kind, rows.Scan)
		if err != nil {
			log.WithError(err).Error("Error scanning entry")
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *RepositoryImpl) GroupTotals(ctx context.Context, kind Kind, from, to time.Time) ([]GroupTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT g.id, g.name, COALESCE(SUM(CAST(e.amount AS REAL)), 0), COUNT(e.id)
		FROM %s g
		LEFT JOIN %s e ON e.group_id = g.id AND e.date >= ? AND e.date <= ?
		GROUP BY g.id, g.name
		ORDER BY g.name ASC`, groupTable(kind), entryTable(kind)),
		utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		log.WithError(err).Error("Error totalling groups")
		return nil, fmt.Errorf("totalling groups: %w", err)
	}
	defer rows.Close()

	var totals []GroupTotal
	for rows.Next() {
		var gt GroupTotal
		var total float64
		if err := rows.Scan(&gt.GroupID, &gt.GroupName, &total, &gt.Count); err != nil {
			return nil, fmt.Errorf("scanning group total: %w", err)
		}
		gt.Total = decimal.NewFromFloat(total)
		totals = append(totals, gt)
	}
	return totals, rows.Err()
}

func (r *RepositoryImpl) SumEntries(ctx context.Context, kind Kind, from, to time.Time) (decimal.Decimal, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(SUM(CAST(amount AS REAL)), 0) FROM %s WHERE date >= ? AND date <= ?",
			entryTable(kind)),
		utils.FormatDate(from), utils.FormatDate(to))
	var total float64
	if err := row.Scan(&total); err != nil {
		log.WithError(err).Error("Error summing entries")
		return decimal.Zero, fmt.Errorf("summing entries: %w", err)
	}
	return decimal.NewFromFloat(total), nil
}

func selectEntry(kind Kind) string {
	return fmt.Sprintf(`SELECT e.id, e.date, e.name, e.group_id, g.name, e.amount, COALESCE(e.notes, ''), e.created_at
	FROM %s e
	JOIN %s g ON g.id = e.group_id`, entryTable(kind), groupTable(kind))
}

func scanEntry(kind Kind, scan func(...any) error) (Entry, error) {
	e := Entry{Kind: kind}
	var date, amount, createdAt string
	if err := scan(&e.ID, &date, &e.Name, &e.GroupID, &e.GroupName, &amount, &e.Notes, &createdAt); err != nil {
		return Entry{}, err
	}
	var err error
	if e.Date, err = utils.ParseDate(date); err != nil {
		return Entry{}, err
	}
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return Entry{}, fmt.Errorf("parsing amount: %w", err)
	}
	if e.CreatedAt, err = utils.ParseTime(createdAt); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
