package post

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/posts"
)

// GetHandler handles single-post reads
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet handles GET /v1/posts/{postID}.
// Drafts resolve only for the owning blog or an admin; everyone else
// gets NotFound.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	response, err := h.service.GetPost(r.Context(), middleware.GetPrincipal(r), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// postID parses the {postID} route parameter.
func postID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
}

// parsePage reads page/size query parameters; zero values let the
// service apply its defaults.
func parsePage(r *http.Request) posts.Page {
	page := posts.Page{}
	if n, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		page.Number = n
	}
	if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil {
		page.Size = s
	}
	return page
}
