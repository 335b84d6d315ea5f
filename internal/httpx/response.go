package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/globatech/sirest/internal/errs"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Error maps a service error to its HTTP status and snake_case code.
// Unrecognized errors become an opaque 500 so internals never leak.
func Error(w http.ResponseWriter, err error) {
	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
		return
	}
	var terr *errs.InvalidTransitionError
	if errors.As(err, &terr) {
		JSONError(w, http.StatusConflict, "invalid_transition", map[string]string{
			"from": terr.From,
			"to":   terr.To,
		})
		return
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, errs.ErrAlreadyPaid):
		JSONError(w, http.StatusConflict, "already_paid", nil)
	case errors.Is(err, errs.ErrConflict):
		JSONError(w, http.StatusConflict, "conflict", nil)
	default:
		JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// Decode reads a JSON request body into dst, rejecting unknown garbage early.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Invalid("body", "invalid_json")
	}
	return nil
}
