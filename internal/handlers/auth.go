package handlers

import (
	"errors"
	"net/http"

	"github.com/globatech/sirest/internal/auth"
	"github.com/globatech/sirest/internal/errs"
	"github.com/globatech/sirest/internal/httpx"
	"github.com/globatech/sirest/internal/models"
	"github.com/globatech/sirest/internal/services"
)

type AuthHandler struct {
	Users  *services.UserService
	Tokens *auth.Manager
}

func NewAuthHandler(users *services.UserService, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

// Login: POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrBadCredentials) {
		httpx.JSONError(w, http.StatusUnauthorized, "bad_credentials", nil)
		return
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	token, err := h.Tokens.Issue(user)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "token": token, "user": user})
}

// Signup: POST /auth/signup – self-serve accounts are customers; creating a
// staff account requires an authenticated admin.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.Error(w, err)
		return
	}
	if in.Role.Staff() {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if id.Role != models.RoleAdmin {
			httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
			return
		}
	}
	user, err := h.Users.Register(r.Context(), in, callerID(r))
	if errors.Is(err, errs.ErrConflict) {
		httpx.JSONError(w, http.StatusConflict, "email_taken", nil)
		return
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	token, err := h.Tokens.Issue(user)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "token": token, "user": user})
}

// Session: GET /auth/session – resolves the bearer token to its profile.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := h.Users.Get(r.Context(), id.UserID)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "user": user})
}

// ChangePassword: POST /profile/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	err := h.Users.ChangePassword(r.Context(), id.UserID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, services.ErrBadCredentials) {
		httpx.JSONError(w, http.StatusUnauthorized, "bad_credentials", nil)
		return
	}
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
