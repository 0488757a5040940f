package post

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Murmur/internal/core/blogs"
	"Murmur/internal/core/files"
	"Murmur/internal/core/posts"
	"Murmur/internal/core/tags"
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
		// Headers are already sent; log and move on.
		slog.Warn("failed to encode response", slog.String("error", err.Error()))
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case posts.IsValidationError(err) || tags.IsInvalidTag(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case posts.IsAccessDenied(err):
		writeError(w, http.StatusForbidden, "AccessDenied",
			"You are not allowed to manage this post")

	case posts.IsNotFound(err) || blogs.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", err.Error())

	case errors.Is(err, files.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
			"An uploaded file exceeds the size limit")

	case errors.Is(err, files.ErrEmptyUpload):
		writeError(w, http.StatusBadRequest, "InvalidRequest",
			"An uploaded file has no content")

	default:
		// Don't leak internal error details to clients
		slog.Error("unexpected error in post handler", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
