package order

import (
	"context"

	"go.uber.org/zap"

	"velvetvogue-be/internal/logger"
)

// Notifier receives order lifecycle events. Notifications are best effort;
// implementations must not block checkout on transport failures.
type Notifier interface {
	OrderCreated(ctx context.Context, o *Order)
	OrderDelivered(ctx context.Context, o *Order)
}

// Carts is the slice of the cart layer this package needs.
type Carts interface {
	Clear(sessionID string)
}

type Service interface {
	Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*Order, error)
	GetOrders(ctx context.Context) ([]Order, error)
	GetDetail(ctx context.Context, id uint) (*Order, error)
	UpdateDeliveryStatus(ctx context.Context, id uint, status string) (*Order, error)
	UpdatePaymentStatus(ctx context.Context, id uint, status string) (*Order, error)
}

type service struct {
	repo     Repository
	carts    Carts
	notifier Notifier
}

func NewService(repo Repository, carts Carts, notifier Notifier) Service {
	return &service{repo: repo, carts: carts, notifier: notifier}
}

// Checkout validates the payload, runs the transactional order creation and
// then performs the post-commit steps: clearing the session cart and firing
// notifications. Only the transaction can fail the checkout; everything after
// the commit is best effort.
func (s *service) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, ErrNoItems
	}

	status := req.PaymentStatus
	if status == "" {
		status = PaymentPending
	}

	o := &Order{
		CustomerName:    req.Customer.Name,
		CustomerEmail:   req.Customer.Email,
		CustomerPhone:   req.Customer.Phone,
		ShippingAddress: req.Customer.Address,
		Subtotal:        *req.Subtotal,
		DeliveryFee:     *req.DeliveryFee,
		TotalAmount:     *req.Total,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   status,
		TransactionRef:  req.PaymentReference,
		DeliveryStatus:  DeliveryPending,
	}

	if err := s.repo.CreateOrderTx(ctx, o, req.Items); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order created",
		zap.Uint("order_id", o.ID),
		zap.String("order_number", o.Number()),
		zap.String("payment_status", o.PaymentStatus),
	)

	if sessionID != "" {
		s.carts.Clear(sessionID)
	}
	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, o)
	}

	return o, nil
}

func (s *service) GetOrders(ctx context.Context) ([]Order, error) {
	return s.repo.GetList(ctx)
}

func (s *service) GetDetail(ctx context.Context, id uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// UpdateDeliveryStatus marks the order delivered or pending. Delivering a
// pay-on-delivery order also settles its payment, and delivery triggers a
// confirmation email.
func (s *service) UpdateDeliveryStatus(ctx context.Context, id uint, status string) (*Order, error) {
	if status != DeliveryPending && status != DeliveryDelivered {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	markPaid := status == DeliveryDelivered &&
		o.PaymentMethod == PayOnDelivery && o.PaymentStatus != PaymentPaid

	if err := s.repo.UpdateDeliveryStatus(ctx, id, status, markPaid); err != nil {
		return nil, err
	}
	o.DeliveryStatus = status
	if markPaid {
		o.PaymentStatus = PaymentPaid
	}

	if status == DeliveryDelivered && s.notifier != nil {
		s.notifier.OrderDelivered(ctx, o)
	}
	return o, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, id uint, status string) (*Order, error) {
	if status != PaymentPending && status != PaymentPaid && status != PaymentFailed {
		return nil, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, err
	}
	o.PaymentStatus = status
	return o, nil
}
