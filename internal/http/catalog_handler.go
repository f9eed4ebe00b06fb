package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/happycart-demo/internal/catalog"
)

type CatalogHandler struct {
	catalog *catalog.Store
}

func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{catalog: store}
}

func (h *CatalogHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	businesses := h.catalog.Businesses()

	out := make([]BusinessDTO, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, toBusinessDTO(b))
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "businessID")

	b, err := h.catalog.Business(id)
	if err != nil {
		if errors.Is(err, catalog.ErrBusinessNotFound) {
			respondError(w, http.StatusNotFound, "business_not_found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toBusinessDTO(b))
}
