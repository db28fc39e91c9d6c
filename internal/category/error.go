package category

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryHasItems = errors.New("category has products")
	ErrEmptyName        = errors.New("category name cannot be empty")
	ErrDuplicateName    = errors.New("category already exists")
)

// Postgres unique_violation, used to map duplicate names.
const PgUniqueViolation = "23505"
