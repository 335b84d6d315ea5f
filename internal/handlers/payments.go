package handlers

import (
	"net/http"

	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/middleware"
	"github.com/globatech/sirest/internal/services"
)

type PaymentHandler struct {
	Svc *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

// Process: POST /payments. Clients may send their displayed subtotal/tax/
// total alongside, but amounts are always recomputed server-side; only
// orderId, paymentMethod, tip, receivedAmount and notes are read.
func (h *PaymentHandler) Process(w http.ResponseWriter, r *http.Request) {
	var in services.PaymentInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	payment, err := h.Svc.Process(r.Context(), in, callerID(r))
	middleware.RecordPayment(err == nil)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "payment": payment})
}

// List: GET /payments – unfiltered; callers narrow by date or method.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "payments": payments})
}
