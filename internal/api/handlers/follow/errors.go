package follow

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Murmur/internal/core/blogs"
	"Murmur/internal/core/follows"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		slog.Warn("failed to encode error response", slog.String("error", err.Error()))
	}
}

// writeJSON writes a JSON success response
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", slog.String("error", err.Error()))
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case follows.IsValidationError(err) || blogs.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, follows.ErrAlreadyFollowing):
		writeError(w, http.StatusConflict, "AlreadyFollowing",
			"You already follow this blog")

	case errors.Is(err, blogs.ErrNotOwner):
		writeError(w, http.StatusForbidden, "AccessDenied",
			"Following requires an active blog")

	case follows.IsNotFound(err) || blogs.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", err.Error())

	default:
		slog.Error("unexpected error in follow handler", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
