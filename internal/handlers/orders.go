package handlers

import (
	"net/http"

	"github.com/globatech/sirest/internal/auth"
	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/services"
)

type OrderHandler struct {
	Svc *services.OrderService
}

func NewOrderHandler(svc *services.OrderService) *OrderHandler {
	return &OrderHandler{Svc: svc}
}

func callerID(r *http.Request) string {
	if id, ok := auth.FromContext(r.Context()); ok {
		return id.UserID
	}
	return ""
}

// List: GET /orders?status=ready – optional status filter, and
// status=settleable for the cashier's queue.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("status")
	if filter == "settleable" {
		orders, err := h.Svc.ListReadyForSettlement(r.Context())
		if err != nil {
			httpx.Error(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
		return
	}
	orders, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if filter != "" {
		kept := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if string(o.Status) == filter {
				kept = append(kept, o)
			}
		}
		orders = kept
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}

// Get: GET /orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}

// Create: POST /orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	order, err := h.Svc.Create(r.Context(), in, callerID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "order": order})
}

// Update: PUT /orders/{id} – partial update; a status field goes through the
// transition check.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var upd services.OrderUpdate
	if err := httpx.Decode(r, &upd); err != nil {
		httpx.Error(w, err)
		return
	}
	order, err := h.Svc.Update(r.Context(), r.PathValue("id"), upd, callerID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}
