package workupdate

import (
	"context"

	"github.com/daylog/daylog/internal/utils"
)

type Service interface {
	Create(ctx context.Context, wu WorkUpdate) (WorkUpdate, error)
	Get(ctx context.Context, id int) (WorkUpdate, error)
	Update(ctx context.Context, wu WorkUpdate) (WorkUpdate, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter Filter) ([]WorkUpdate, error)
	Recent(ctx context.Context) ([]WorkUpdate, error)
	Search(ctx context.Context, query string) ([]WorkUpdate, error)
	SummaryByHead(ctx context.Context) ([]HeadSummary, error)
	MonthlyCounts(ctx context.Context, year int) ([]MonthlyCount, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, wu WorkUpdate) (WorkUpdate, error) {
	now := s.clock.Now()
	if wu.Date.IsZero() {
		wu.Date = now
	}
	wu.CreatedAt = now
	wu.UpdatedAt = now
	return s.repo.Store(ctx, wu)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (WorkUpdate, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, wu WorkUpdate) (WorkUpdate, error) {
	existing, err := s.repo.Get(ctx, wu.ID)
	if err != nil {
		return WorkUpdate{}, err
	}
	wu.CreatedAt = existing.CreatedAt
	wu.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, wu)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]WorkUpdate, error) {
	return s.repo.List(ctx, filter)
}

// Recent returns updates from the last seven days, newest first.
func (s *ServiceImpl) Recent(ctx context.Context) ([]WorkUpdate, error) {
	now := s.clock.Now()
	return s.repo.List(ctx, Filter{From: now.AddDate(0, 0, -6), To: now})
}

func (s *ServiceImpl) Search(ctx context.Context, query string) ([]WorkUpdate, error) {
	return s.repo.List(ctx, Filter{Search: query, Limit: SearchLimit})
}

func (s *ServiceImpl) SummaryByHead(ctx context.Context) ([]HeadSummary, error) {
	return s.repo.SummaryByHead(ctx)
}

func (s *ServiceImpl) MonthlyCounts(ctx context.Context, year int) ([]MonthlyCount, error) {
	return s.repo.MonthlyCounts(ctx, year)
}
