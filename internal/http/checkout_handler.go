package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/nikolayk812/happycart-demo/internal/checkout"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout *checkout.Orchestrator
	logger   *zap.Logger
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: orchestrator,
		logger:   logger,
	}
}

func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCheckoutDTO(h.checkout.Snapshot()))
}

func (h *CheckoutHandler) Review(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCheckoutDTO(h.checkout.Review(r.Context())))
}

func (h *CheckoutHandler) Close(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCheckoutDTO(h.checkout.Close(r.Context())))
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.checkout.Checkout)
}

func (h *CheckoutHandler) BeginPhotoCheckout(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.checkout.BeginPhotoCheckout)
}

func (h *CheckoutHandler) Capture(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.checkout.Capture)
}

func (h *CheckoutHandler) Retake(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.checkout.Retake)
}

func (h *CheckoutHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.checkout.Save)
}

func (h *CheckoutHandler) SkipPhoto(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.checkout.SkipPhoto)
}

func (h *CheckoutHandler) run(w http.ResponseWriter, r *http.Request, op func(context.Context) (checkout.Snapshot, error)) {
	snap, err := op(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCheckoutDTO(snap))
}

func (h *CheckoutHandler) handleError(w http.ResponseWriter, err error) {
	if notice, ok := checkout.NoticeFor(err); ok {
		respondErrorDetails(w, http.StatusUnprocessableEntity, "empty_cart", notice.Title, notice.Description)
		return
	}

	var transitionErr *checkout.TransitionError
	switch {
	case errors.As(err, &transitionErr):
		respondError(w, http.StatusConflict, "invalid_transition", transitionErr.Error())
	case errors.Is(err, checkout.ErrCaptureInProgress):
		respondError(w, http.StatusConflict, "capture_in_progress", err.Error())
	case errors.Is(err, checkout.ErrFlowAbandoned):
		respondError(w, http.StatusConflict, "flow_abandoned", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "request_cancelled", err.Error())
	default:
		h.logger.Error("checkout failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
