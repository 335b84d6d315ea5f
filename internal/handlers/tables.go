package handlers

import (
	"net/http"

	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/services"
)

type TableHandler struct {
	Svc *services.TableService
}

func NewTableHandler(svc *services.TableService) *TableHandler {
	return &TableHandler{Svc: svc}
}

// List: GET /tables
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "tables": tables})
}

// Create: POST /tables
func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.Table
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	table, err := h.Svc.Create(r.Context(), in, callerID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "table": table})
}

// Update: PUT /tables/{id} – status/waiter change.
func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.TableStatus `json:"status"`
		Waiter string             `json:"waiter"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	table, err := h.Svc.SetStatus(r.Context(), r.PathValue("id"), req.Status, req.Waiter, callerID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "table": table})
}
