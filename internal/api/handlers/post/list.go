package post

import (
	"net/http"

	"Murmur/internal/core/posts"
)

// ListHandler handles post listing requests
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList handles GET /v1/posts.
// Filters: blog (repeatable), tag (repeatable), category. Listings are
// published-only; category defaults to root.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := posts.PostFilter{
		BlogNames: query["blog"],
		TagNames:  query["tag"],
		Category:  query.Get("category"),
	}

	page, err := h.service.ListPosts(r.Context(), filter, parsePage(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
