package api

import (
	"net/http"

	"velvetvogue-be/internal/admin"
	"velvetvogue-be/internal/cart"
	"velvetvogue-be/internal/category"
	"velvetvogue-be/internal/logger"
	"velvetvogue-be/internal/mailer"
	"velvetvogue-be/internal/mailqueue"
	"velvetvogue-be/internal/middleware"
	"velvetvogue-be/internal/order"
	"velvetvogue-be/internal/product"
)

// DefaultSizes is the size vocabulary admin input is checked against when no
// override is configured. The core packages stay label-agnostic; only this
// boundary cares.
var DefaultSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

type Handler struct {
	products     product.Service
	categories   category.Service
	carts        cart.Service
	orders       order.Service
	queue        mailqueue.Service
	mail         mailer.Service
	auth         admin.Service
	allowedSizes map[string]struct{}
}

func NewHandler(
	products product.Service,
	categories category.Service,
	carts cart.Service,
	orders order.Service,
	queue mailqueue.Service,
	mail mailer.Service,
	auth admin.Service,
	allowedSizes []string,
) *Handler {
	if len(allowedSizes) == 0 {
		allowedSizes = DefaultSizes
	}
	set := make(map[string]struct{}, len(allowedSizes))
	for _, s := range allowedSizes {
		set[s] = struct{}{}
	}
	return &Handler{
		products:     products,
		categories:   categories,
		carts:        carts,
		orders:       orders,
		queue:        queue,
		mail:         mail,
		auth:         auth,
		allowedSizes: set,
	}
}

func (h *Handler) sizeAllowed(label string) bool {
	_, ok := h.allowedSizes[label]
	return ok
}

// Routes assembles the public storefront and the JWT-guarded admin surface.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/categories", h.listCategories)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/add", h.addToCart)
	mux.HandleFunc("POST /api/cart/update", h.updateCart)
	mux.HandleFunc("POST /api/cart/remove", h.removeFromCart)

	mux.HandleFunc("POST /api/checkout", h.checkout)

	mux.HandleFunc("POST /admin/login", h.adminLogin)

	guarded := http.NewServeMux()
	guarded.HandleFunc("POST /admin/products", h.createProduct)
	guarded.HandleFunc("PUT /admin/products/{id}", h.updateProduct)
	guarded.HandleFunc("PUT /admin/products/{id}/stock", h.updateStock)
	guarded.HandleFunc("DELETE /admin/products/{id}", h.deleteProduct)
	guarded.HandleFunc("POST /admin/categories", h.createCategory)
	guarded.HandleFunc("DELETE /admin/categories/{id}", h.deleteCategory)
	guarded.HandleFunc("GET /admin/orders", h.listOrders)
	guarded.HandleFunc("GET /admin/orders/{id}", h.getOrder)
	guarded.HandleFunc("PUT /admin/orders/{id}/delivery-status", h.updateDeliveryStatus)
	guarded.HandleFunc("PUT /admin/orders/{id}/payment-status", h.updatePaymentStatus)
	guarded.HandleFunc("POST /admin/retry-emails", h.retryEmails)
	guarded.HandleFunc("GET /admin/email-queue", h.emailQueueStats)
	guarded.HandleFunc("GET /admin/email-log", h.emailLog)
	mux.Handle("/admin/", middleware.AdminAuth(guarded))

	var handler http.Handler = mux
	handler = middleware.RateLimit(handler)
	handler = middleware.Session(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
