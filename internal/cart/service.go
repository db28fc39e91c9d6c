package cart

import (
	"context"
	"fmt"

	"velvetvogue-be/internal/logger"
	"velvetvogue-be/internal/product"

	"go.uber.org/zap"
)

// AddResult is returned to the storefront after a successful add.
type AddResult struct {
	Message        string
	Totals         Totals
	ItemQuantity   int
	RemainingStock int
}

// Service defines the business logic for session carts. Stock checks here
// are best-effort; checkout re-validates against the ledger.
type Service interface {
	Add(ctx context.Context, sessionID string, productID uint, size string, quantity int) (*AddResult, error)
	Update(ctx context.Context, sessionID, key string, quantity int) (Totals, string, error)
	Remove(ctx context.Context, sessionID, key string) (Totals, error)
	Items(sessionID string) map[string]Item
	Totals(sessionID string) Totals
	Clear(sessionID string)
}

type service struct {
	store       *Store
	productRepo product.Repository
}

func NewService(store *Store, productRepo product.Repository) Service {
	return &service{store: store, productRepo: productRepo}
}

func (s *service) Add(
	ctx context.Context,
	sessionID string,
	productID uint,
	size string,
	quantity int,
) (*AddResult, error) {

	if size == "" {
		return nil, ErrSizeRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if ok, msg := p.Sizes.CheckAvailability(size, quantity); !ok {
		return nil, &StockError{Reason: msg, Available: p.Sizes[size]}
	}

	key := Key(productID, size)
	currentInCart := 0
	if existing, ok := s.store.Get(sessionID, key); ok {
		currentInCart = existing.Quantity
	}
	requestedTotal := currentInCart + quantity

	// Re-check against what the whole cart would hold for this size.
	if ok, msg := p.Sizes.CheckAvailability(size, requestedTotal); !ok {
		return nil, &StockError{Reason: msg, Available: p.Sizes[size]}
	}

	item := Item{
		ProductID: productID,
		Name:      p.Name,
		Price:     p.Price,
		Size:      size,
		Quantity:  requestedTotal,
		MaxStock:  p.Sizes[size],
	}
	if len(p.ImageURLs) > 0 {
		item.ImageURL = p.ImageURLs[0]
	}

	totals := s.store.Put(sessionID, key, item)

	logger.FromCtx(ctx).Info("cart item added",
		zap.String("session_id", sessionID),
		zap.Uint("product_id", productID),
		zap.String("size", size),
		zap.Int("quantity", requestedTotal),
	)

	return &AddResult{
		Message:        fmt.Sprintf("%s (Size %s) added to cart", p.Name, size),
		Totals:         totals,
		ItemQuantity:   requestedTotal,
		RemainingStock: p.Sizes[size] - requestedTotal,
	}, nil
}

func (s *service) Update(
	ctx context.Context,
	sessionID, key string,
	quantity int,
) (Totals, string, error) {

	if quantity < 0 {
		return Totals{}, "", ErrInvalidQuantity
	}

	item, ok := s.store.Get(sessionID, key)
	if !ok {
		return Totals{}, "", ErrItemNotFound
	}

	if quantity == 0 {
		totals, _ := s.store.Remove(sessionID, key)
		return totals, "Item removed from cart", nil
	}

	p, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return Totals{}, "", err
	}
	if ok, msg := p.Sizes.CheckAvailability(item.Size, quantity); !ok {
		return Totals{}, "", &StockError{Reason: msg, Available: p.Sizes[item.Size]}
	}

	item.Quantity = quantity
	totals := s.store.Put(sessionID, key, item)
	return totals, "Cart updated", nil
}

func (s *service) Remove(ctx context.Context, sessionID, key string) (Totals, error) {
	totals, removed := s.store.Remove(sessionID, key)
	if !removed {
		return totals, ErrItemNotFound
	}
	return totals, nil
}

func (s *service) Items(sessionID string) map[string]Item {
	return s.store.Snapshot(sessionID)
}

func (s *service) Totals(sessionID string) Totals {
	return s.store.Totals(sessionID)
}

func (s *service) Clear(sessionID string) {
	s.store.Clear(sessionID)
}
