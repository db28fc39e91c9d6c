package category

import (
	"context"
	"strings"
)

type Service interface {
	GetCategories(ctx context.Context) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	Delete(ctx context.Context, categoryID uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.GetCategories(ctx)
}

func (s *service) AddCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return s.repo.AddCategory(ctx, name)
}

// Delete refuses while products still reference the category.
func (s *service) Delete(ctx context.Context, categoryID uint) error {
	count, err := s.repo.CountProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryHasItems
	}
	return s.repo.Delete(ctx, categoryID)
}
