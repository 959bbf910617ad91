package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"reviwa-backend/internal/domain"
	"reviwa-backend/internal/logger"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// validationError carries per-field details alongside a domain validation
// error.
type validationError struct {
	fields []FieldError
}

func (e *validationError) Error() string {
	return "validation failed"
}

func (e *validationError) Unwrap() error {
	return domain.ErrValidation
}

// statusFor maps an error category to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{
		Success: false,
		Error:   domain.ErrorCategory(err),
		Message: domain.Message(err),
	}

	var verr *validationError
	if errors.As(err, &verr) {
		resp.Message = "Validation failed"
		resp.Errors = verr.fields
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Message = "Something went wrong"
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

// data wraps a payload in the success envelope.
func data(payload any) map[string]any {
	return map[string]any{"success": true, "data": payload}
}
