package blog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/blogs"
)

// UpdateHandler handles blog settings updates
type UpdateHandler struct {
	service blogs.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service blogs.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PATCH /v1/blogs/{blogID}.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := blogID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid blog id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req blogs.UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	req.BlogID = id

	blog, err := h.service.UpdateBlog(r.Context(), middleware.GetPrincipal(r), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, blog)
}

// HandleActivate handles POST /v1/blogs/{blogID}/activate, switching the
// caller's acting blog.
func (h *UpdateHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	id, err := blogID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid blog id")
		return
	}

	if err := h.service.SetActiveBlog(r.Context(), middleware.GetPrincipal(r), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// blogID parses the {blogID} route parameter.
func blogID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "blogID"), 10, 64)
}
