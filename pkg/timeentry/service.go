package timeentry

import (
	"context"
	"fmt"
	"time"

	"github.com/daylog/daylog/internal/daterange"
	"github.com/daylog/daylog/internal/utils"
	"github.com/daylog/daylog/pkg/activity"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ActivityProvider is the slice of the activity service this package needs.
type ActivityProvider interface {
	Get(ctx context.Context, id int) (activity.Activity, error)
}

type ListResult struct {
	Entries              []TimeEntry
	TotalEntries         int
	TotalDurationMinutes int
	From                 time.Time
	To                   time.Time
}

type SyncState struct {
	ActiveEntry   *TimeEntry
	RecentEntries []TimeEntry
}

type Service interface {
	List(ctx context.Context, rng *daterange.Range) (ListResult, error)
	Get(ctx context.Context, id int) (TimeEntry, error)
	Active(ctx context.Context) (*TimeEntry, error)
	Start(ctx context.Context, activityID int, notes string) (TimeEntry, error)
	Stop(ctx context.Context, id int) (TimeEntry, error)
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	Update(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	Delete(ctx context.Context, id int) (bool, error)
	SyncState(ctx context.Context) (SyncState, error)
	Gaps(ctx context.Context, rng daterange.Range) ([]Gap, error)
}

type ServiceImpl struct {
	repo       Repository
	activities ActivityProvider
	clock      utils.Clock
}

func NewService(repo Repository, activities ActivityProvider, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, activities: activities, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, rng *daterange.Range) (ListResult, error) {
	var from, to time.Time
	if rng != nil {
		from = rng.StartOfDay()
		to = rng.EndOfDay()
	}
	entries, err := s.repo.List(ctx, from, to)
	if err != nil {
		return ListResult{}, err
	}
	totalDuration := 0
	for _, entry := range entries {
		if entry.EndTime != nil {
			totalDuration += entry.DurationMinutes
		}
	}
	return ListResult{
		Entries:              entries,
		TotalEntries:         len(entries),
		TotalDurationMinutes: totalDuration,
		From:                 from,
		To:                   to,
	}, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (TimeEntry, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Active(ctx context.Context) (*TimeEntry, error) {
	open, err := s.repo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}
	return &open[0], nil
}

// Start stops every running entry before opening a new one, so at most one
// entry is ever open. The new entry carries a sync token for client-side
// reconciliation.
func (s *ServiceImpl) Start(ctx context.Context, activityID int, notes string) (TimeEntry, error) {
	act, err := s.activities.Get(ctx, activityID)
	if err != nil {
		return TimeEntry{}, err
	}

	open, err := s.repo.FindOpen(ctx)
	if err != nil {
		return TimeEntry{}, err
	}
	now := s.clock.Now()
	for _, entry := range open {
		log.Debugf("Stopping running entry %d before starting a new one", entry.ID)
		end := now
		entry.EndTime = &end
		entry.DurationMinutes = Duration(entry.StartTime, end)
		if _, err := s.repo.Update(ctx, entry); err != nil {
			return TimeEntry{}, err
		}
	}

	entry := TimeEntry{
		ActivityID: act.ID,
		StartTime:  now,
		Notes:      notes,
		SyncToken:  uuid.NewString(),
	}
	id, err := s.repo.Store(ctx, entry)
	if err != nil {
		return TimeEntry{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Stop(ctx context.Context, id int) (TimeEntry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return TimeEntry{}, err
	}
	if entry.EndTime != nil {
		return TimeEntry{}, ErrAlreadyStopped
	}
	end := s.clock.Now()
	entry.EndTime = &end
	entry.DurationMinutes = Duration(entry.StartTime, end)
	if _, err := s.repo.Update(ctx, entry); err != nil {
		return TimeEntry{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if _, err := s.activities.Get(ctx, entry.ActivityID); err != nil {
		return TimeEntry{}, err
	}
	if err := s.validate(ctx, entry); err != nil {
		return TimeEntry{}, err
	}
	if entry.EndTime != nil {
		entry.DurationMinutes = Duration(entry.StartTime, *entry.EndTime)
	}
	id, err := s.repo.Store(ctx, entry)
	if err != nil {
		return TimeEntry{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, entry TimeEntry) (TimeEntry, error) {
	if _, err := s.repo.Get(ctx, entry.ID); err != nil {
		return TimeEntry{}, err
	}
	if err := s.validate(ctx, entry); err != nil {
		return TimeEntry{}, err
	}
	if entry.EndTime != nil {
		entry.DurationMinutes = Duration(entry.StartTime, *entry.EndTime)
	}
	if _, err := s.repo.Update(ctx, entry); err != nil {
		return TimeEntry{}, err
	}
	return s.repo.Get(ctx, entry.ID)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) SyncState(ctx context.Context) (SyncState, error) {
	active, err := s.Active(ctx)
	if err != nil {
		return SyncState{}, err
	}
	yesterday := s.clock.Now().Add(-24 * time.Hour)
	recent, err := s.repo.FindRecentlyFinished(ctx, yesterday, 5)
	if err != nil {
		return SyncState{}, err
	}
	return SyncState{ActiveEntry: active, RecentEntries: recent}, nil
}

func (s *ServiceImpl) Gaps(ctx context.Context, rng daterange.Range) ([]Gap, error) {
	entries, err := s.repo.FindClosedBetween(ctx, rng.StartOfDay(), rng.EndOfDay())
	if err != nil {
		return nil, err
	}
	return FindGaps(entries, rng.StartOfDay(), rng.EndOfDay()), nil
}

// validate enforces the interval rules: ordered times, nothing in the future,
// and no overlap with another closed entry of the same activity. The check is
// check-then-act; two concurrent conflicting writes can still race.
func (s *ServiceImpl) validate(ctx context.Context, entry TimeEntry) error {
	now := s.clock.Now()
	if entry.StartTime.After(now) {
		return ErrFutureTime
	}
	if entry.EndTime == nil {
		return nil
	}
	if !entry.EndTime.After(entry.StartTime) {
		return ErrEndBeforeStart
	}
	if entry.EndTime.After(now) {
		return ErrFutureTime
	}

	existing, err := s.repo.FindClosedForActivity(ctx, entry.ActivityID, entry.ID)
	if err != nil {
		return fmt.Errorf("could not check for overlapping entries: %w", err)
	}
	for _, other := range existing {
		if Overlaps(other.StartTime, *other.EndTime, entry.StartTime, *entry.EndTime) {
			return ErrOverlap
		}
	}
	return nil
}
