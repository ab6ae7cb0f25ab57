package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/privmedia"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type.
// Errors that are not privmedia sentinels are logged and reported as 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, privmedia.ErrNotFound):
		slog.DebugContext(ctx, "request error", "error", err)
		WriteError(w, http.StatusNotFound, "not_found", "File not found")
	case errors.Is(err, privmedia.ErrForbidden):
		slog.DebugContext(ctx, "request error", "error", err)
		WriteError(w, http.StatusForbidden, "forbidden", "Access denied")
	case errors.Is(err, privmedia.ErrInvalidInput):
		slog.DebugContext(ctx, "request error", "error", err)
		WriteError(w, http.StatusBadRequest, "invalid_path", "Invalid path")
	default:
		slog.ErrorContext(ctx, "request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
