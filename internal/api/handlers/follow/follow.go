package follow

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/follows"
)

const maxJSONBody = 1 << 20 // 1 MiB

// FollowHandler handles follow edge mutations. The follower side is
// always the principal's active blog.
type FollowHandler struct {
	service follows.Service
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(service follows.Service) *FollowHandler {
	return &FollowHandler{service: service}
}

type followRequest struct {
	BlogName string `json:"blogName"`
	Notify   bool   `json:"notify"`
}

// HandleFollow handles POST /v1/follows.
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.BlogName == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "blogName is required")
		return
	}

	edge, err := h.service.Follow(r.Context(), middleware.GetPrincipal(r), req.BlogName, req.Notify)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, edge)
}

// HandleUnfollow handles DELETE /v1/follows/{blogName}.
func (h *FollowHandler) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	blogName := chi.URLParam(r, "blogName")
	if blogName == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "blog name is required")
		return
	}

	if err := h.service.Unfollow(r.Context(), middleware.GetPrincipal(r), blogName); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateFollowRequest struct {
	Notify *bool `json:"notify,omitempty"`
	Muted  *bool `json:"muted,omitempty"`
}

// HandleUpdate handles PATCH /v1/follows/{blogName}, toggling the
// notify and muted flags on an existing edge.
func (h *FollowHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	blogName := chi.URLParam(r, "blogName")
	if blogName == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "blog name is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	var req updateFollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Notify == nil && req.Muted == nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "nothing to update")
		return
	}

	principal := middleware.GetPrincipal(r)
	ctx := r.Context()

	if req.Notify != nil {
		if err := h.service.SetNotify(ctx, principal, blogName, *req.Notify); err != nil {
			handleServiceError(w, err)
			return
		}
	}
	if req.Muted != nil {
		if err := h.service.SetMuted(ctx, principal, blogName, *req.Muted); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
