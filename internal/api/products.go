package api

import (
	"errors"
	"net/http"

	"velvetvogue-be/internal/product"
	"velvetvogue-be/internal/utils"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var categoryID *uint
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := utils.ToUint(raw)
		if err != nil {
			utils.WriteJSONError(w, "Invalid category id", http.StatusBadRequest)
			return
		}
		categoryID = &id
	}

	products, err := h.products.GetList(r.Context(), categoryID)
	if err != nil {
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": products,
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			utils.WriteJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"product":         p,
		"stock_status":    p.StockStatus(),
		"available_sizes": p.AvailableSizes(),
	})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetCategories(r.Context())
	if err != nil {
		utils.WriteJSONError(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"categories": categories,
	})
}
