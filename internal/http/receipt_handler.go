package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/happycart-demo/internal/port"
	"github.com/nikolayk812/happycart-demo/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultReceiptLimit = 20
	maxReceiptLimit     = 100
)

type ReceiptHandler struct {
	receipts port.ReceiptRepository
	logger   *zap.Logger
}

func NewReceiptHandler(receipts port.ReceiptRepository, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		receipts: receipts,
		logger:   logger,
	}
}

func (h *ReceiptHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	limit := defaultReceiptLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxReceiptLimit {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	receipts, err := h.receipts.ListReceipts(r.Context(), limit)
	if err != nil {
		h.logger.Error("receipts listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	out := make([]ReceiptDTO, 0, len(receipts))
	for _, receipt := range receipts {
		out = append(out, toReceiptDTO(receipt))
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *ReceiptHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "receiptID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_receipt_id", "receipt id must be a UUID")
		return
	}

	receipt, err := h.receipts.GetReceipt(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			respondError(w, http.StatusNotFound, "receipt_not_found", "receipt not found")
			return
		}
		h.logger.Error("receipt lookup failed", zap.String("receipt_id", id.String()), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, toReceiptDTO(receipt))
}
