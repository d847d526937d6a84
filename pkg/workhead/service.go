package workhead

import (
	"context"

	"github.com/daylog/daylog/internal/utils"
)

type Service interface {
	Create(ctx context.Context, wh WorkHead) (WorkHead, error)
	Get(ctx context.Context, id int) (WorkHead, error)
	Update(ctx context.Context, wh WorkHead) (WorkHead, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, activeOnly bool) ([]WorkHead, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, wh WorkHead) (WorkHead, error) {
	now := s.clock.Now()
	wh.CreatedAt = now
	wh.UpdatedAt = now
	return s.repo.Store(ctx, wh)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (WorkHead, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, wh WorkHead) (WorkHead, error) {
	existing, err := s.repo.Get(ctx, wh.ID)
	if err != nil {
		return WorkHead{}, err
	}
	wh.CreatedAt = existing.CreatedAt
	wh.UpdatedAt = s.clock.Now()
	return s.repo.Update(ctx, wh)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, activeOnly bool) ([]WorkHead, error) {
	return s.repo.List(ctx, activeOnly)
}
