package follow

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/core/blogs"
	"Murmur/internal/core/follows"
)

// ListHandler handles following/followers listings for a blog.
type ListHandler struct {
	service     follows.Service
	blogService blogs.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service follows.Service, blogService blogs.Service) *ListHandler {
	return &ListHandler{service: service, blogService: blogService}
}

// HandleListFollowing handles GET /v1/blogs/{blogName}/following.
func (h *ListHandler) HandleListFollowing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListFollowing)
}

// HandleListFollowers handles GET /v1/blogs/{blogName}/followers.
func (h *ListHandler) HandleListFollowers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListFollowers)
}

func (h *ListHandler) list(w http.ResponseWriter, r *http.Request,
	load func(ctx context.Context, blogID int64, limit, offset int) ([]*follows.FollowView, error)) {

	blogName := chi.URLParam(r, "blogName")
	if blogName == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "blog name is required")
		return
	}

	blog, err := h.blogService.GetBlogByName(r.Context(), blogName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	limit, offset := parseWindow(r)
	list, err := load(r.Context(), blog.ID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if list == nil {
		list = []*follows.FollowView{}
	}

	writeJSON(w, http.StatusOK, list)
}

// parseWindow reads limit/offset query parameters; zero values let the
// service apply its defaults.
func parseWindow(r *http.Request) (int, int) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	return limit, offset
}
