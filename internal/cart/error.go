package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrSizeRequired    = errors.New("please select a size")

	// -- Resource State --
	ErrItemNotFound = errors.New("item not in cart")
)

// StockError carries the actual available quantity so the client can adjust.
type StockError struct {
	Reason    string
	Available int
}

func (e *StockError) Error() string {
	return e.Reason
}
