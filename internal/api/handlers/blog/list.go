package blog

import (
	"net/http"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/blogs"
)

// ListHandler handles listing the caller's blogs
type ListHandler struct {
	service blogs.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service blogs.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleListMine handles GET /v1/blogs, returning every blog owned by
// the authenticated user.
func (h *ListHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	list, err := h.service.ListUserBlogs(r.Context(), principal.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if list == nil {
		list = []*blogs.Blog{}
	}

	writeJSON(w, http.StatusOK, list)
}
