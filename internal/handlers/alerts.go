package handlers

import (
	"net/http"

	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/services"
)

type AlertHandler struct {
	Svc *services.AlertService
}

func NewAlertHandler(svc *services.AlertService) *AlertHandler {
	return &AlertHandler{Svc: svc}
}

// List: GET /alerts – unread only.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Svc.Unread(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "alerts": alerts})
}

// MarkRead: PUT /alerts/{id}/read
func (h *AlertHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.MarkRead(r.Context(), r.PathValue("id"), callerID(r)); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
