package blog

import (
	"encoding/json"
	"net/http"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/blogs"
)

// RegisterHandler provisions the default blog for a freshly registered
// user. The auth layer calls this once after account creation.
type RegisterHandler struct {
	service blogs.Service
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(service blogs.Service) *RegisterHandler {
	return &RegisterHandler{service: service}
}

type registerRequest struct {
	Username string `json:"username"`
}

// HandleRegister handles POST /v1/blogs/register.
// Creates a blog named after the username and makes it the caller's
// active blog.
func (h *RegisterHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "username is required")
		return
	}

	blog, err := h.service.CreateDefaultBlog(r.Context(), principal.UserID, req.Username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, blog)
}
