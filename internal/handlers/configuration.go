package handlers

import (
	"net/http"

	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/services"
)

type ConfigurationHandler struct {
	Svc *services.Settings
}

func NewConfigurationHandler(svc *services.Settings) *ConfigurationHandler {
	return &ConfigurationHandler{Svc: svc}
}

// Get: GET /configuration
func (h *ConfigurationHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Svc.Get(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "configuration": cfg})
}

// Put: PUT /configuration – admin only (enforced in the router). Rates take
// effect on the next payment; recorded payments keep their amounts.
func (h *ConfigurationHandler) Put(w http.ResponseWriter, r *http.Request) {
	var in models.Configuration
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	if in.TaxRate.IsNegative() || in.ServiceRate.IsNegative() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"rates": "must_not_be_negative"})
		return
	}
	cfg, err := h.Svc.Put(r.Context(), in, callerID(r))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "configuration": cfg})
}
