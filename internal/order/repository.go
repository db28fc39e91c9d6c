package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"velvetvogue-be/internal/inventory"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order, items []CheckoutItem) error
	GetList(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id uint) (*Order, error)
	GetItems(ctx context.Context, orderID uint) ([]OrderItem, error)
	UpdateDeliveryStatus(ctx context.Context, id uint, status string, markPaid bool) error
	UpdatePaymentStatus(ctx context.Context, id uint, status string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// priceTolerance absorbs rounding differences between the client and the
// catalog; anything larger is treated as a changed price.
var priceTolerance = decimal.NewFromFloat(0.01)

// CreateOrderTx inserts the order and its items and, for paid orders,
// decrements inventory, all inside one transaction. Each product row is
// locked before its availability is checked so concurrent checkouts
// serialize on the same product. Any failure rolls the whole order back.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order, items []CheckoutItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO orders
		(customer_name, customer_email, customer_phone, shipping_address,
		 subtotal, delivery_fee, total_amount,
		 payment_method, payment_status, transaction_ref, delivery_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err = tx.QueryRowContext(ctx, query,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.ShippingAddress,
		o.Subtotal, o.DeliveryFee, o.TotalAmount,
		o.PaymentMethod, o.PaymentStatus, o.TransactionRef, o.DeliveryStatus,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return err
	}

	deduct := o.PaymentStatus == PaymentPaid

	for _, item := range items {
		productID := item.ResolveID()

		sizes, err := inventory.LockSizes(ctx, tx, productID)
		if err != nil {
			if errors.Is(err, inventory.ErrProductNotFound) {
				return fmt.Errorf("product not found: %d", productID)
			}
			return err
		}

		var name string
		var price decimal.Decimal
		err = tx.QueryRowContext(ctx,
			`SELECT name, price FROM products WHERE id = $1`, productID,
		).Scan(&name, &price)
		if err != nil {
			return err
		}

		if item.Price.Sub(price).Abs().GreaterThan(priceTolerance) {
			return &PriceMismatchError{ProductID: productID, Submitted: item.Price, Current: price}
		}

		ok, reason := sizes.CheckAvailability(item.Size, item.Quantity)
		if !ok {
			return &StockConflictError{
				ProductID: productID,
				Size:      item.Size,
				Reason:    reason,
				Available: sizes[item.Size],
			}
		}

		oi := OrderItem{
			OrderID:     o.ID,
			ProductID:   productID,
			ProductName: name,
			Size:        item.Size,
			Quantity:    item.Quantity,
			Price:       price,
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, product_id, size, quantity, price)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			oi.OrderID, oi.ProductID, oi.Size, oi.Quantity, oi.Price,
		).Scan(&oi.ID)
		if err != nil {
			return err
		}
		o.Items = append(o.Items, oi)

		if deduct {
			if err := sizes.Decrement(item.Size, item.Quantity); err != nil {
				return err
			}
			if err := inventory.SaveSizes(ctx, tx, productID, sizes, item.Quantity); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

const orderColumns = `id, customer_name, customer_email, customer_phone, shipping_address,
	subtotal, delivery_fee, total_amount,
	payment_method, payment_status, transaction_ref, delivery_status, created_at`

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.ShippingAddress,
		&o.Subtotal, &o.DeliveryFee, &o.TotalAmount,
		&o.PaymentMethod, &o.PaymentStatus, &o.TransactionRef, &o.DeliveryStatus, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetList(ctx context.Context) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) GetItems(ctx context.Context, orderID uint) ([]OrderItem, error) {
	query := `SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.size, oi.quantity, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Size, &it.Quantity, &it.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) UpdateDeliveryStatus(ctx context.Context, id uint, status string, markPaid bool) error {
	var res sql.Result
	var err error
	if markPaid {
		res, err = r.db.ExecContext(ctx,
			`UPDATE orders SET delivery_status = $1, payment_status = $2 WHERE id = $3`,
			status, PaymentPaid, id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE orders SET delivery_status = $1 WHERE id = $2`, status, id)
	}
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uint, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}
