package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/happycart-demo/internal/cart"
	"github.com/nikolayk812/happycart-demo/internal/catalog"
)

// CartHandler exposes the four cart operations. Cart mutations never fail; only catalog lookups do.
type CartHandler struct {
	catalog *catalog.Store
	cart    *cart.Engine
}

func NewCartHandler(store *catalog.Store, engine *cart.Engine) *CartHandler {
	return &CartHandler{
		catalog: store,
		cart:    engine,
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCartDTO(h.cart.Snapshot()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	candidate, err := h.catalog.Candidate(productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "product_not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(h.cart.AddItem(candidate)))
}

func (h *CartHandler) AddCombo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCartDTO(h.cart.AddItems(h.catalog.Combo())))
}

// UpdateQuantity sets an absolute quantity; zero or below removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	respondJSON(w, http.StatusOK, toCartDTO(h.cart.UpdateQuantity(productID, *req.Quantity)))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	respondJSON(w, http.StatusOK, toCartDTO(h.cart.RemoveItem(productID)))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCartDTO(h.cart.Clear()))
}
