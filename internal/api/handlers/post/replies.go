package post

import (
	"net/http"

	"Murmur/internal/core/posts"
)

// RepliesHandler handles reply listing requests
type RepliesHandler struct {
	service posts.Service
}

// NewRepliesHandler creates a new replies handler
func NewRepliesHandler(service posts.Service) *RepliesHandler {
	return &RepliesHandler{service: service}
}

// HandleListReplies handles GET /v1/posts/{postID}/replies.
// Replies come back oldest first.
func (h *RepliesHandler) HandleListReplies(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	page, err := h.service.ListReplies(r.Context(), id, parsePage(r))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
