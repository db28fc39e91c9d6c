package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"velvetvogue-be/internal/mailqueue"
	"velvetvogue-be/internal/metrics"
	"velvetvogue-be/internal/order"
)

type fakeTransport struct {
	delivered bool
	detail    string
	calls     int
}

func (f *fakeTransport) Send(ctx context.Context, recipient, subject, htmlContent string) (bool, string) {
	f.calls++
	return f.delivered, f.detail
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, params mailqueue.EnqueueParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *MockQueue) Sweep(ctx context.Context, maxRetries *int) (mailqueue.SweepStats, error) {
	args := m.Called(ctx, maxRetries)
	return args.Get(0).(mailqueue.SweepStats), args.Error(1)
}

func (m *MockQueue) Stats(ctx context.Context) (*mailqueue.QueueStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mailqueue.QueueStats), args.Error(1)
}

func (m *MockQueue) List(ctx context.Context, limit int) ([]mailqueue.FailedEmail, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mailqueue.FailedEmail), args.Error(1)
}

func sampleOrder() *order.Order {
	return &order.Order{
		ID:              18,
		CustomerName:    "Amara Obi",
		CustomerEmail:   "amara@example.com",
		ShippingAddress: "12 Marina Rd, Lagos",
		Subtotal:        decimal.RequireFromString("91.00"),
		DeliveryFee:     decimal.RequireFromString("5.00"),
		TotalAmount:     decimal.RequireFromString("96.00"),
		PaymentMethod:   "Card",
		PaymentStatus:   order.PaymentPaid,
		Items: []order.OrderItem{
			{ProductName: "Silk Scarf", Size: "M", Quantity: 2, Price: decimal.RequireFromString("45.50")},
		},
	}
}

func TestSend_DeliveredCountsAndLogs(t *testing.T) {
	transport := &fakeTransport{delivered: true, detail: "Sent successfully"}
	queue := new(MockQueue)
	stats := &metrics.MailStats{}
	svc := NewService(transport, queue, "admin@example.com", "http://shop.test", stats)

	ok, msg := svc.Send(context.Background(), "amara@example.com", "Hi", "<p>hi</p>", TypeOrderConfirmation, nil)

	assert.True(t, ok)
	assert.Equal(t, "Email sent successfully", msg)
	assert.Equal(t, uint64(1), stats.Sent.Load())
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)

	log := svc.RecentAttempts()
	require.Len(t, log, 1)
	assert.True(t, log[0].Delivered)
	assert.False(t, log[0].Queued)
}

func TestSend_FailureEnqueuesForRetry(t *testing.T) {
	transport := &fakeTransport{delivered: false, detail: "Connection refused to smtp.test:587: dial tcp"}
	queue := new(MockQueue)
	stats := &metrics.MailStats{}
	svc := NewService(transport, queue, "", "http://shop.test", stats)

	orderID := uint(18)
	queue.On("Enqueue", mock.Anything, mock.MatchedBy(func(p mailqueue.EnqueueParams) bool {
		return p.Recipient == "amara@example.com" &&
			p.EmailType == TypeOrderConfirmation &&
			p.OrderID != nil && *p.OrderID == 18 &&
			p.ErrorMessage == transport.detail
	})).Return(nil)

	ok, msg := svc.Send(context.Background(), "amara@example.com", "Hi", "<p>hi</p>", TypeOrderConfirmation, &orderID)

	assert.False(t, ok)
	assert.Contains(t, msg, "queued for retry")
	assert.Equal(t, uint64(1), stats.Queued.Load())
	queue.AssertExpectations(t)

	log := svc.RecentAttempts()
	require.Len(t, log, 1)
	assert.True(t, log[0].Queued)
}

func TestSend_QueueFailureIsCritical(t *testing.T) {
	transport := &fakeTransport{delivered: false, detail: "SMTP Error: 550"}
	queue := new(MockQueue)
	stats := &metrics.MailStats{}
	svc := NewService(transport, queue, "", "", stats)

	queue.On("Enqueue", mock.Anything, mock.Anything).Return(errors.New("db down"))

	ok, msg := svc.Send(context.Background(), "a@b.c", "Hi", "<p></p>", TypeOrderConfirmation, nil)

	assert.False(t, ok)
	assert.Contains(t, msg, "Critical error")
	assert.Equal(t, uint64(1), stats.Failed.Load())
}

func TestOrderCreated_SendsCustomerAndAdminCopies(t *testing.T) {
	transport := &fakeTransport{delivered: true, detail: "Sent successfully"}
	queue := new(MockQueue)
	svc := NewService(transport, queue, "admin@example.com", "http://shop.test", nil)

	svc.OrderCreated(context.Background(), sampleOrder())

	assert.Equal(t, 2, transport.calls)
	log := svc.RecentAttempts()
	require.Len(t, log, 2)
	// Newest first: admin alert went out after the receipt.
	assert.Equal(t, TypeAdminNotification, log[0].EmailType)
	assert.Equal(t, TypeOrderConfirmation, log[1].EmailType)
}

func TestOrderCreated_NoAdminConfigured(t *testing.T) {
	transport := &fakeTransport{delivered: true, detail: "Sent successfully"}
	svc := NewService(transport, new(MockQueue), "", "http://shop.test", nil)

	svc.OrderCreated(context.Background(), sampleOrder())

	assert.Equal(t, 1, transport.calls)
}

func TestOrderDelivered(t *testing.T) {
	transport := &fakeTransport{delivered: true, detail: "Sent successfully"}
	svc := NewService(transport, new(MockQueue), "", "", nil)

	svc.OrderDelivered(context.Background(), sampleOrder())

	log := svc.RecentAttempts()
	require.Len(t, log, 1)
	assert.Equal(t, TypeDeliveryConfirmation, log[0].EmailType)
	assert.Equal(t, "amara@example.com", log[0].Recipient)
}
