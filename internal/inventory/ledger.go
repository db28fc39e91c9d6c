package inventory

import (
	"context"
	"database/sql"

	"velvetvogue-be/internal/logger"

	"go.uber.org/zap"
)

// Querier is satisfied by both *sql.DB and *sql.Tx. Ledger mutations run
// inside the caller's transaction so the decrement commits or rolls back
// together with the order that caused it.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// LockSizes reads a product's size map under a row-level lock. Concurrent
// checkouts on the same product serialize here instead of racing on the
// decrement.
func LockSizes(ctx context.Context, q Querier, productID uint) (SizeMap, error) {
	var sizes SizeMap
	err := q.QueryRowContext(ctx, `
		SELECT sizes FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID).Scan(&sizes)

	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return sizes, nil
}

// SaveSizes writes back a mutated size map, recomputing the denormalized
// stock column from the map in the same statement and bumping sold_count.
func SaveSizes(ctx context.Context, q Querier, productID uint, sizes SizeMap, soldDelta int) error {
	res, err := q.ExecContext(ctx, `
		UPDATE products
		SET sizes = $1, stock = $2, sold_count = sold_count + $3
		WHERE id = $4
	`, sizes, sizes.Total(), soldDelta, productID)
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

	logger.FromCtx(ctx).Debug("ledger updated",
		zap.Uint("product_id", productID),
		zap.Int("stock", sizes.Total()),
		zap.Int("sold_delta", soldDelta),
	)
	return nil
}
