package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"velvetvogue-be/internal/admin"
	"velvetvogue-be/internal/category"
	"velvetvogue-be/internal/inventory"
	"velvetvogue-be/internal/order"
	"velvetvogue-be/internal/product"
	"velvetvogue-be/internal/utils"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrInvalidCredentials) {
			utils.WriteJSONError(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}

// validateSizes enforces the admin size vocabulary. Core packages accept any
// label; only staff input is constrained.
func (h *Handler) validateSizes(sizes inventory.SizeMap) error {
	for label := range sizes {
		if !h.sizeAllowed(label) {
			return fmt.Errorf("invalid size label: %s", label)
		}
	}
	return nil
}

type productRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       *decimal.Decimal  `json:"price"`
	CategoryID  *uint             `json:"category_id"`
	Sizes       inventory.SizeMap `json:"sizes"`
	ImageURLs   []string          `json:"image_urls"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Price == nil {
		utils.WriteJSONError(w, "Missing field: price", http.StatusBadRequest)
		return
	}
	if err := h.validateSizes(req.Sizes); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.products.Create(r.Context(), product.NewProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		CategoryID:  req.CategoryID,
		Sizes:       req.Sizes,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		writeProductError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"product": p,
	})
}

type productUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *uint            `json:"category_id"`
	ImageURLs   []string         `json:"image_urls"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req productUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.products.Update(r.Context(), product.UpdateProductInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		writeProductError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product updated",
	})
}

type stockUpdateRequest struct {
	Sizes inventory.SizeMap `json:"sizes"`
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	var req stockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validateSizes(req.Sizes); err != nil {
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.products.UpdateStock(r.Context(), id, req.Sizes); err != nil {
		writeProductError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Stock updated",
	})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeProductError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Product deleted",
	})
}

func writeProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		utils.WriteJSONError(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, product.ErrProductReferenced):
		utils.WriteJSONError(w, "Cannot delete a product that has been ordered", http.StatusBadRequest)
	case errors.Is(err, product.ErrEmptyName),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrNegativeStock),
		errors.Is(err, product.ErrNoFieldsToEdit):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
	}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.categories.AddCategory(r.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, category.ErrEmptyName), errors.Is(err, category.ErrDuplicateName):
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		default:
			utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"category": c,
	})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	if err := h.categories.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, category.ErrCategoryNotFound):
			utils.WriteJSONError(w, "Category not found", http.StatusNotFound)
		case errors.Is(err, category.ErrCategoryHasItems):
			utils.WriteJSONError(w, "Cannot delete a category that still has products", http.StatusBadRequest)
		default:
			utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Category deleted",
	})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetOrders(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orders":  orders,
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.orders.GetDetail(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"order":        o,
		"order_number": o.Number(),
	})
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.orders.UpdateDeliveryStatus(r.Context(), id, req.Status)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"delivery_status": o.DeliveryStatus,
		"payment_status":  o.PaymentStatus,
	})
}

func (h *Handler) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid order id", http.StatusBadRequest)
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.orders.UpdatePaymentStatus(r.Context(), id, req.Status)
	if err != nil {
		writeOrderError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"payment_status": o.PaymentStatus,
	})
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, order.ErrInvalidStatus):
		utils.WriteJSONError(w, "Invalid status value", http.StatusBadRequest)
	default:
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
	}
}

type retryEmailsRequest struct {
	MaxRetries *int `json:"max_retries"`
}

func (h *Handler) retryEmails(w http.ResponseWriter, r *http.Request) {
	var req retryEmailsRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	stats, err := h.queue.Sweep(r.Context(), req.MaxRetries)
	if err != nil {
		utils.WriteJSONError(w, "Retry sweep failed", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

func (h *Handler) emailQueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queue.Stats(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

func (h *Handler) emailLog(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"attempts": h.mail.RecentAttempts(),
	})
}
