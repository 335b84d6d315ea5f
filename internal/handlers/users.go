package handlers

import (
	"net/http"

	"github.com/globatech/sirest/internal/auth"
	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/services"
)

type UserHandler struct {
	Svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{Svc: svc}
}

// List: GET /users – admin only (enforced in the router).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "users": users})
}

// Profile: GET /profile – the caller's own record.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := h.Svc.Get(r.Context(), id.UserID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// UpdateProfile: PUT /profile – the caller edits their own name/phone/avatar.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var upd services.ProfileUpdate
	if err := httpx.Decode(r, &upd); err != nil {
		httpx.Error(w, err)
		return
	}
	user, err := h.Svc.UpdateProfile(r.Context(), id.UserID, upd)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// Update: PUT /users/{id} – admin account management: deactivate with a note,
// or reactivate.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active *bool  `json:"active"`
		Note   string `json:"deactivationNote"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	if req.Active == nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"active": "required"})
		return
	}
	var err error
	var user any
	if *req.Active {
		user, err = h.Svc.Reactivate(r.Context(), r.PathValue("id"), callerID(r))
	} else {
		user, err = h.Svc.Deactivate(r.Context(), r.PathValue("id"), req.Note, callerID(r))
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
