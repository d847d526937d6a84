package category

import (
	"context"
)

type Service interface {
	GetAll(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, category Category) (Category, error) {
	id, err := s.repo.Store(ctx, category)
	if err != nil {
		return Category{}, err
	}
	category.ID = id
	return category, nil
}

func (s *ServiceImpl) Update(ctx context.Context, category Category) (bool, error) {
	return s.repo.Update(ctx, category)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}
