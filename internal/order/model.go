package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"

	DeliveryPending   = "pending"
	DeliveryDelivered = "delivered"

	// PayOnDelivery orders flip to paid when marked delivered.
	PayOnDelivery = "Pay on Delivery"
)

// Order is immutable after checkout except for the two status fields.
// Customer details are a snapshot taken at purchase time, not a live
// reference to an account.
type Order struct {
	ID              uint            `json:"id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	ShippingAddress string          `json:"shipping_address"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	TransactionRef  *string         `json:"transaction_ref,omitempty"`
	DeliveryStatus  string          `json:"delivery_status"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}

// Number derives the display identifier from the storage id. It is never
// stored, always recomputed.
func (o *Order) Number() string {
	return fmt.Sprintf("VV%04d", o.ID)
}

// OrderItem is an immutable snapshot; Price is the price at purchase time
// and is never recalculated from the current product price.
type OrderItem struct {
	ID          uint            `json:"id"`
	OrderID     uint            `json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CheckoutItem struct {
	ProductID uint            `json:"product_id"`
	AltID     uint            `json:"id"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ResolveID accepts either "product_id" or "id" from the client payload.
func (i CheckoutItem) ResolveID() uint {
	if i.ProductID != 0 {
		return i.ProductID
	}
	return i.AltID
}

// CheckoutRequest mirrors the external JSON contract. Pointer fields
// distinguish "absent" from zero so validation can name the missing field.
type CheckoutRequest struct {
	Customer         *Customer        `json:"customer"`
	Items            []CheckoutItem   `json:"items"`
	Subtotal         *decimal.Decimal `json:"subtotal"`
	DeliveryFee      *decimal.Decimal `json:"delivery_fee"`
	Total            *decimal.Decimal `json:"total"`
	PaymentMethod    string           `json:"payment_method"`
	PaymentStatus    string           `json:"payment_status"`
	PaymentReference *string          `json:"payment_reference"`
}

// Validate checks the required top-level fields and reports the first
// missing one by name.
func (r *CheckoutRequest) Validate() error {
	switch {
	case r.Customer == nil:
		return &FieldError{Field: "customer"}
	case r.Items == nil:
		return &FieldError{Field: "items"}
	case r.Subtotal == nil:
		return &FieldError{Field: "subtotal"}
	case r.DeliveryFee == nil:
		return &FieldError{Field: "delivery_fee"}
	case r.Total == nil:
		return &FieldError{Field: "total"}
	case r.PaymentMethod == "":
		return &FieldError{Field: "payment_method"}
	}
	return nil
}
