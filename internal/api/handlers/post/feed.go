package post

import (
	"net/http"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/posts"
)

// FeedHandler handles follow-feed requests
type FeedHandler struct {
	service posts.Service
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(service posts.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// HandleFeed handles GET /v1/feed.
// Lists published posts from blogs the principal's active blog follows,
// excluding muted follows.
func (h *FeedHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Feed(r.Context(), middleware.GetPrincipal(r), parsePage(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
