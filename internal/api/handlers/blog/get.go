package blog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/core/blogs"
)

// GetHandler handles blog lookup requests
type GetHandler struct {
	service blogs.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service blogs.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet handles GET /v1/blogs/{blogName}.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	blogName := chi.URLParam(r, "blogName")
	if blogName == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "blog name is required")
		return
	}

	blog, err := h.service.GetBlogByName(r.Context(), blogName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}
