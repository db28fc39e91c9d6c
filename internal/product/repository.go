package product

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"velvetvogue-be/internal/inventory"
	"velvetvogue-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetList(ctx context.Context, categoryID *uint) ([]Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, input UpdateProductInput) error
	UpdateStock(ctx context.Context, id uint, sizes inventory.SizeMap) error
	CountOrderReferences(ctx context.Context, id uint) (int, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, name, description, price, category_id,
	sizes, stock, sold_count, image_urls, created_at
`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID,
		&p.Sizes, &p.Stock, &p.SoldCount, &p.ImageURLs, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) GetList(ctx context.Context, categoryID *uint) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}

	if categoryID != nil {
		query += ` WHERE category_id = $1`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("DB query failed GetList", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	p := &Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		Sizes:       input.Sizes,
		Stock:       input.Sizes.Total(),
		ImageURLs:   pq.StringArray(input.ImageURLs),
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, category_id, sizes, stock, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		p.Name, p.Description, p.Price, p.CategoryID,
		p.Sizes, p.Stock, p.ImageURLs,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		logger.FromCtx(ctx).Error("DB insert failed Create product", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, input UpdateProductInput) error {
	set := []string{}
	args := []any{}

	if input.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *input.Name)
	}
	if input.Description != nil {
		set = append(set, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *input.Description)
	}
	if input.Price != nil {
		set = append(set, fmt.Sprintf("price = $%d", len(args)+1))
		args = append(args, *input.Price)
	}
	if input.CategoryID != nil {
		set = append(set, fmt.Sprintf("category_id = $%d", len(args)+1))
		args = append(args, *input.CategoryID)
	}
	if input.ImageURLs != nil {
		set = append(set, fmt.Sprintf("image_urls = $%d", len(args)+1))
		args = append(args, pq.StringArray(input.ImageURLs))
	}

	if len(set) == 0 {
		return ErrNoFieldsToEdit
	}

	query := fmt.Sprintf(
		"UPDATE products SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args)+1,
	)
	args = append(args, input.ID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateStock replaces the whole size map from the admin stock form. The
// stock column is recomputed from the map in the same statement.
func (r *repository) UpdateStock(ctx context.Context, id uint, sizes inventory.SizeMap) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET sizes = $1, stock = $2 WHERE id = $3
	`, sizes, sizes.Total(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) CountOrderReferences(ctx context.Context, id uint) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(id) FROM order_items WHERE product_id = $1`, id,
	).Scan(&count)
	return count, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
