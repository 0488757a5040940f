package blog

import (
	"encoding/json"
	"net/http"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/blogs"
)

const maxJSONBody = 1 << 20 // 1 MiB

// CreateHandler handles blog creation requests
type CreateHandler struct {
	service blogs.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service blogs.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /v1/blogs.
// A user's first blog becomes their active blog automatically.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req blogs.CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	blog, err := h.service.CreateBlog(r.Context(), middleware.GetPrincipal(r), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, blog)
}
