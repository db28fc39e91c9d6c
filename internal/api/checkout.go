package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"velvetvogue-be/internal/logger"
	"velvetvogue-be/internal/order"
	"velvetvogue-be/internal/utils"
)

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req order.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	o, err := h.orders.Checkout(r.Context(), sessionID(r), req)
	if err != nil {
		writeCheckoutError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"order_number": o.Number(),
		"message":      "Order placed successfully",
	})
}

func writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr *order.FieldError
	var stockErr *order.StockConflictError
	var priceErr *order.PriceMismatchError

	switch {
	case errors.As(err, &fieldErr):
		utils.WriteJSONError(w, fieldErr.Error(), http.StatusBadRequest)
	case errors.Is(err, order.ErrNoItems):
		utils.WriteJSONError(w, "No items in order", http.StatusBadRequest)
	case errors.As(err, &stockErr):
		utils.WriteJSON(w, http.StatusConflict, map[string]any{
			"success":   false,
			"error":     stockErr.Reason,
			"available": stockErr.Available,
		})
	case errors.As(err, &priceErr):
		utils.WriteJSONError(w, priceErr.Error(), http.StatusConflict)
	case strings.HasPrefix(err.Error(), "product not found"):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		logger.FromCtx(r.Context()).Error("checkout failed", zap.Error(err))
		utils.WriteJSONError(w, "Checkout failed. Please try again.", http.StatusInternalServerError)
	}
}
