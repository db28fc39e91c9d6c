package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"velvetvogue-be/internal/admin"
	"velvetvogue-be/internal/cart"
	"velvetvogue-be/internal/category"
	"velvetvogue-be/internal/inventory"
	"velvetvogue-be/internal/mailer"
	"velvetvogue-be/internal/mailqueue"
	"velvetvogue-be/internal/order"
	"velvetvogue-be/internal/product"
)

type MockProductService struct{ mock.Mock }

func (m *MockProductService) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) GetList(ctx context.Context, categoryID *uint) ([]product.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.NewProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, input product.UpdateProductInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockProductService) UpdateStock(ctx context.Context, id uint, sizes inventory.SizeMap) error {
	return m.Called(ctx, id, sizes).Error(0)
}

func (m *MockProductService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

type MockCategoryService struct{ mock.Mock }

func (m *MockCategoryService) GetCategories(ctx context.Context) ([]*category.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryService) AddCategory(ctx context.Context, name string) (*category.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, categoryID uint) error {
	return m.Called(ctx, categoryID).Error(0)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) Add(ctx context.Context, sessionID string, productID uint, size string, quantity int) (*cart.AddResult, error) {
	args := m.Called(ctx, sessionID, productID, size, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.AddResult), args.Error(1)
}

func (m *MockCartService) Update(ctx context.Context, sessionID, key string, quantity int) (cart.Totals, string, error) {
	args := m.Called(ctx, sessionID, key, quantity)
	return args.Get(0).(cart.Totals), args.String(1), args.Error(2)
}

func (m *MockCartService) Remove(ctx context.Context, sessionID, key string) (cart.Totals, error) {
	args := m.Called(ctx, sessionID, key)
	return args.Get(0).(cart.Totals), args.Error(1)
}

func (m *MockCartService) Items(sessionID string) map[string]cart.Item {
	args := m.Called(sessionID)
	return args.Get(0).(map[string]cart.Item)
}

func (m *MockCartService) Totals(sessionID string) cart.Totals {
	args := m.Called(sessionID)
	return args.Get(0).(cart.Totals)
}

func (m *MockCartService) Clear(sessionID string) {
	m.Called(sessionID)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) Checkout(ctx context.Context, sessionID string, req order.CheckoutRequest) (*order.Order, error) {
	args := m.Called(ctx, sessionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrders(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetDetail(ctx context.Context, id uint) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateDeliveryStatus(ctx context.Context, id uint, status string) (*order.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) UpdatePaymentStatus(ctx context.Context, id uint, status string) (*order.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockQueueService struct{ mock.Mock }

func (m *MockQueueService) Enqueue(ctx context.Context, params mailqueue.EnqueueParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockQueueService) Sweep(ctx context.Context, maxRetries *int) (mailqueue.SweepStats, error) {
	args := m.Called(ctx, maxRetries)
	return args.Get(0).(mailqueue.SweepStats), args.Error(1)
}

func (m *MockQueueService) Stats(ctx context.Context) (*mailqueue.QueueStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mailqueue.QueueStats), args.Error(1)
}

func (m *MockQueueService) List(ctx context.Context, limit int) ([]mailqueue.FailedEmail, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]mailqueue.FailedEmail), args.Error(1)
}

type MockMailService struct{ mock.Mock }

func (m *MockMailService) Send(ctx context.Context, recipient, subject, htmlContent, emailType string, orderID *uint) (bool, string) {
	args := m.Called(ctx, recipient, subject, htmlContent, emailType, orderID)
	return args.Bool(0), args.String(1)
}

func (m *MockMailService) OrderCreated(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockMailService) OrderDelivered(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockMailService) RecentAttempts() []mailer.AttemptRecord {
	args := m.Called()
	return args.Get(0).([]mailer.AttemptRecord)
}

type testEnv struct {
	products *MockProductService
	carts    *MockCartService
	orders   *MockOrderService
	queue    *MockQueueService
	mail     *MockMailService
	handler  http.Handler
}

var remotePort = 2000

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	env := &testEnv{
		products: new(MockProductService),
		carts:    new(MockCartService),
		orders:   new(MockOrderService),
		queue:    new(MockQueueService),
		mail:     new(MockMailService),
	}

	hash, err := admin.HashPassword("velvet-secret")
	require.NoError(t, err)

	h := NewHandler(
		env.products,
		new(MockCategoryService),
		env.carts,
		env.orders,
		env.queue,
		env.mail,
		admin.NewService("admin", hash),
		nil,
	)
	env.handler = h.Routes()
	return env
}

// do issues a request with a unique remote address so the shared rate
// limiter buckets never bleed between tests.
func (e *testEnv) do(method, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	remotePort++
	req.RemoteAddr = fmt.Sprintf("10.77.%d.%d:4000", remotePort/250, remotePort%250)
	for _, m := range mutate {
		m(req)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := admin.GenerateToken("admin")
	require.NoError(t, err)
	return token
}

func withToken(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestCheckout_Success(t *testing.T) {
	env := newTestEnv(t)

	env.orders.On("Checkout", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(&order.Order{ID: 12}, nil)

	rr := env.do(http.MethodPost, "/api/checkout", map[string]any{
		"customer":       map[string]string{"name": "Amara", "email": "a@b.c", "phone": "1", "address": "x"},
		"items":          []map[string]any{{"product_id": 7, "size": "M", "quantity": 2, "price": 45.5}},
		"subtotal":       91.0,
		"delivery_fee":   5.0,
		"total":          96.0,
		"payment_method": "Card",
		"payment_status": "paid",
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "VV0012", body["order_number"])
}

func TestCheckout_MissingField(t *testing.T) {
	env := newTestEnv(t)

	env.orders.On("Checkout", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &order.FieldError{Field: "customer"})

	rr := env.do(http.MethodPost, "/api/checkout", map[string]any{"items": []any{}})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing field: customer", body["error"])
}

func TestCheckout_StockConflict(t *testing.T) {
	env := newTestEnv(t)

	env.orders.On("Checkout", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &order.StockConflictError{Reason: "Only 1 available in size M", Available: 1})

	rr := env.do(http.MethodPost, "/api/checkout", map[string]any{})

	assert.Equal(t, http.StatusConflict, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Only 1 available in size M", body["error"])
	assert.Equal(t, float64(1), body["available"])
}

func TestAddToCart_Success(t *testing.T) {
	env := newTestEnv(t)

	env.carts.On("Add", mock.Anything, mock.AnythingOfType("string"), uint(7), "M", 2).
		Return(&cart.AddResult{
			Message:        "Silk Scarf (Size M) added to cart",
			Totals:         cart.Totals{Count: 2, Total: decimal.RequireFromString("91.00")},
			ItemQuantity:   2,
			RemainingStock: 3,
		}, nil)

	rr := env.do(http.MethodPost, "/api/cart/add", map[string]any{
		"product_id": 7, "size": "M", "quantity": 2,
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, float64(2), body["cart_count"])
	assert.Equal(t, "91", body["cart_total"])
	assert.Equal(t, float64(3), body["remaining_stock"])
}

func TestAddToCart_StockErrorIncludesAvailable(t *testing.T) {
	env := newTestEnv(t)

	env.carts.On("Add", mock.Anything, mock.Anything, uint(7), "M", 5).
		Return(nil, &cart.StockError{Reason: "Only 3 available in size M", Available: 3})

	rr := env.do(http.MethodPost, "/api/cart/add", map[string]any{
		"product_id": 7, "size": "M", "quantity": 5,
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "Only 3 available in size M", body["error"])
	assert.Equal(t, float64(3), body["available"])
}

func TestRemoveFromCart_MissingKey(t *testing.T) {
	env := newTestEnv(t)

	env.carts.On("Remove", mock.Anything, mock.Anything, "7_M").
		Return(cart.Totals{}, cart.ErrItemNotFound)

	rr := env.do(http.MethodPost, "/api/cart/remove", map[string]any{"key": "7_M"})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	env.products.On("GetByID", mock.Anything, uint(99)).Return(nil, product.ErrProductNotFound)

	rr := env.do(http.MethodGet, "/api/products/99", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/admin/login", map[string]string{
			"username": "admin", "password": "velvet-secret",
		})
		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("invalid", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/admin/login", map[string]string{
			"username": "admin", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodGet, "/admin/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRetryEmails_WithOverride(t *testing.T) {
	env := newTestEnv(t)

	env.queue.On("Sweep", mock.Anything, mock.MatchedBy(func(max *int) bool {
		return max != nil && *max == 3
	})).Return(mailqueue.SweepStats{Processed: 2, Sent: 1, Failed: 1}, nil)

	rr := env.do(http.MethodPost, "/admin/retry-emails",
		map[string]any{"max_retries": 3}, withToken(adminToken(t)))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["processed"])
	env.queue.AssertExpectations(t)
}

func TestCreateProduct_RejectsUnknownSizeLabel(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(http.MethodPost, "/admin/products", map[string]any{
		"name":  "Silk Scarf",
		"price": 45.5,
		"sizes": map[string]int{"GIGANTIC": 4},
	}, withToken(adminToken(t)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Contains(t, body["error"], "invalid size label")
	env.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateDeliveryStatus(t *testing.T) {
	env := newTestEnv(t)

	env.orders.On("UpdateDeliveryStatus", mock.Anything, uint(9), "delivered").
		Return(&order.Order{ID: 9, DeliveryStatus: "delivered", PaymentStatus: "paid"}, nil)

	rr := env.do(http.MethodPut, "/admin/orders/9/delivery-status",
		map[string]string{"status": "delivered"}, withToken(adminToken(t)))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, "delivered", body["delivery_status"])
	assert.Equal(t, "paid", body["payment_status"])
}

func TestDeleteProduct_ReferencedSurfacesAs400(t *testing.T) {
	env := newTestEnv(t)

	env.products.On("Delete", mock.Anything, uint(7)).Return(product.ErrProductReferenced)

	rr := env.do(http.MethodDelete, "/admin/products/7", nil, withToken(adminToken(t)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
