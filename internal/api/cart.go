package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"velvetvogue-be/internal/cart"
	"velvetvogue-be/internal/product"
	"velvetvogue-be/internal/utils"
)

type addToCartRequest struct {
	ProductID uint   `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type updateCartRequest struct {
	Key      string `json:"key"`
	Quantity int    `json:"quantity"`
}

type removeFromCartRequest struct {
	Key string `json:"key"`
}

func sessionID(r *http.Request) string {
	id, _ := utils.GetSessionFromContext(r.Context())
	return id
}

func writeCartError(w http.ResponseWriter, err error) {
	var stockErr *cart.StockError
	switch {
	case errors.As(err, &stockErr):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"success":   false,
			"error":     stockErr.Reason,
			"available": stockErr.Available,
		})
	case errors.Is(err, cart.ErrSizeRequired),
		errors.Is(err, cart.ErrInvalidQuantity):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, cart.ErrItemNotFound):
		utils.WriteJSONError(w, "Item not found in cart", http.StatusNotFound)
	case errors.Is(err, product.ErrProductNotFound):
		utils.WriteJSONError(w, "Product not found", http.StatusNotFound)
	default:
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	totals := h.carts.Totals(sid)
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"items":      h.carts.Items(sid),
		"cart_count": totals.Count,
		"cart_total": totals.Total,
	})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.carts.Add(r.Context(), sessionID(r), req.ProductID, req.Size, req.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         result.Message,
		"cart_count":      result.Totals.Count,
		"cart_total":      result.Totals.Total,
		"item_quantity":   result.ItemQuantity,
		"remaining_stock": result.RemainingStock,
	})
}

func (h *Handler) updateCart(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	totals, msg, err := h.carts.Update(r.Context(), sessionID(r), req.Key, req.Quantity)
	if err != nil {
		writeCartError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    msg,
		"cart_count": totals.Count,
		"cart_total": totals.Total,
	})
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	var req removeFromCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	totals, err := h.carts.Remove(r.Context(), sessionID(r), req.Key)
	if err != nil {
		writeCartError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Item removed from cart",
		"cart_count": totals.Count,
		"cart_total": totals.Total,
	})
}
