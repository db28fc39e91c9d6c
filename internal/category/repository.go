package category

import (
	"context"
	"database/sql"

	"velvetvogue-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetCategories(ctx context.Context) ([]*Category, error)
	AddCategory(ctx context.Context, name string) (*Category, error)
	CountProducts(ctx context.Context, categoryID uint) (int, error)
	Delete(ctx context.Context, categoryID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetCategories(ctx context.Context) ([]*Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM categories
		ORDER BY name ASC
	`)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed GetCategories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *repository) AddCategory(ctx context.Context, name string) (*Category, error) {
	var c Category
	c.Name = name

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (name) VALUES ($1)
		RETURNING id, created_at
	`, name).Scan(&c.ID, &c.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == PgUniqueViolation {
		return nil, ErrDuplicateName
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) CountProducts(ctx context.Context, categoryID uint) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM products WHERE category_id = $1`, categoryID,
	).Scan(&count)
	return count, err
}

func (r *repository) Delete(ctx context.Context, categoryID uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
