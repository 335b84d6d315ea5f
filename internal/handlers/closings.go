package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/services"
)

type ClosingHandler struct {
	Svc *services.ClosingService
}

func NewClosingHandler(svc *services.ClosingService) *ClosingHandler {
	return &ClosingHandler{Svc: svc}
}

// Generate: POST /cash-closing – snapshots today's payments against the
// counted drawer.
func (h *ClosingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CashCount decimal.Decimal `json:"cashCount"`
		Notes     string          `json:"notes"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	report, err := h.Svc.GenerateClosing(r.Context(), req.CashCount, req.Notes, time.Now(), callerID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "report": report})
}

// List: GET /cash-closings
func (h *ClosingHandler) List(w http.ResponseWriter, r *http.Request) {
	closings, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "closings": closings})
}
