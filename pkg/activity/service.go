package activity

import "context"

type Service interface {
	GetAll(ctx context.Context, activeOnly bool) ([]Activity, error)
	Get(ctx context.Context, id int) (Activity, error)
	Create(ctx context.Context, activity Activity) (Activity, error)
	Update(ctx context.Context, activity Activity) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) GetAll(ctx context.Context, activeOnly bool) ([]Activity, error) {
	return s.repo.GetAll(ctx, activeOnly)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Activity, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, activity Activity) (Activity, error) {
	id, err := s.repo.Store(ctx, activity)
	if err != nil {
		return Activity{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Update(ctx context.Context, activity Activity) (bool, error) {
	return s.repo.Update(ctx, activity)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.Delete(ctx, id)
}
