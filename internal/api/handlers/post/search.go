package post

import (
	"net/http"

	"Murmur/internal/core/posts"
)

// SearchHandler handles full-text search requests
type SearchHandler struct {
	service posts.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service posts.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// HandleSearch handles GET /v1/posts/search?q={query}.
// Results come back in index-rank order, published posts only.
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "q parameter is required")
		return
	}

	page, err := h.service.SearchPosts(r.Context(), query, parsePage(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
