package inventory

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSizeNotFound      = errors.New("size not available")
	ErrInsufficientStock = errors.New("insufficient stock")
)
