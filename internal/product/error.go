package product

import "errors"

var (
	// -- Resource State --
	ErrProductNotFound   = errors.New("product not found")
	ErrProductReferenced = errors.New("cannot delete product that has been ordered")

	// -- Validation & Input --
	ErrEmptyName      = errors.New("product name cannot be empty")
	ErrInvalidPrice   = errors.New("product price must be positive")
	ErrNegativeStock  = errors.New("size quantity cannot be negative")
	ErrNoFieldsToEdit = errors.New("no fields to update")
)
