// Package attachment streams stored attachment bytes for the file URLs
// embedded in post responses.
package attachment

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/core/files"
)

// ServeHandler reads attachment payloads out of the file store.
type ServeHandler struct {
	store files.Store
}

// NewServeHandler creates a new serve handler
func NewServeHandler(store files.Store) *ServeHandler {
	return &ServeHandler{store: store}
}

// HandleServe handles GET /v1/files/*.
// The wildcard is the store key. Keys are store-assigned and immutable,
// so responses cache aggressively.
func (h *ServeHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		writeFileError(w, http.StatusBadRequest, "file key is required")
		return
	}

	rc, err := h.store.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			writeFileError(w, http.StatusNotFound, "file not found")
			return
		}
		slog.Error("failed to open stored file",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		writeFileError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer func() {
		if err := rc.Close(); err != nil {
			slog.Warn("failed to close stored file", slog.String("key", key), slog.String("error", err.Error()))
		}
	}()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("failed to stream stored file",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// writeFileError writes a plain text error response; the expected
// payload here is binary, not JSON.
func writeFileError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		slog.Warn("failed to write error response", slog.String("error", err.Error()))
	}
}
