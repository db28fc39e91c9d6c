package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoItems       = errors.New("order must contain at least one item")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid status value")
)

// FieldError identifies a missing required field in a checkout payload.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("Missing field: %s", e.Field)
}

// StockConflictError carries the human readable reason and the quantity
// still available so the client can adjust the cart.
type StockConflictError struct {
	ProductID uint
	Size      string
	Reason    string
	Available int
}

func (e *StockConflictError) Error() string {
	return e.Reason
}

// PriceMismatchError is returned when the client-submitted unit price
// disagrees with the catalog price at checkout time.
type PriceMismatchError struct {
	ProductID uint
	Submitted decimal.Decimal
	Current   decimal.Decimal
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("Price changed for product %d: expected %s, got %s",
		e.ProductID, e.Current.String(), e.Submitted.String())
}
