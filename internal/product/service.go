package product

import (
	"context"
	"strings"

	"velvetvogue-be/internal/inventory"
	"velvetvogue-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetList(ctx context.Context, categoryID *uint) ([]Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) error
	UpdateStock(ctx context.Context, id uint, sizes inventory.SizeMap) error
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetList(ctx context.Context, categoryID *uint) ([]Product, error) {
	return s.repo.GetList(ctx, categoryID)
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrEmptyName
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	for _, qty := range input.Sizes {
		if qty < 0 {
			return nil, ErrNegativeStock
		}
	}

	p, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product created",
		zap.Uint("product_id", p.ID),
		zap.String("name", p.Name),
		zap.Int("stock", p.Stock),
	)
	return p, nil
}

func (s *service) Update(ctx context.Context, input UpdateProductInput) error {
	if input.ID == 0 {
		return ErrProductNotFound
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return ErrEmptyName
	}
	if input.Price != nil && input.Price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	return s.repo.Update(ctx, input)
}

func (s *service) UpdateStock(ctx context.Context, id uint, sizes inventory.SizeMap) error {
	for _, qty := range sizes {
		if qty < 0 {
			return ErrNegativeStock
		}
	}
	return s.repo.UpdateStock(ctx, id, sizes)
}

// Delete refuses to remove a product any order item still references, so
// order history keeps resolving.
func (s *service) Delete(ctx context.Context, id uint) error {
	refs, err := s.repo.CountOrderReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrProductReferenced
	}
	return s.repo.Delete(ctx, id)
}
