package post

import (
	"encoding/json"
	"net/http"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	service posts.Service
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(service posts.Service) *CreateHandler {
	return &CreateHandler{service: service}
}

// HandleCreate handles POST /v1/posts.
// Accepts either a JSON body or a multipart form whose "post" field
// carries the JSON document and whose "files" parts become attachments
// in upload order.
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r)

	var req posts.CreatePostRequest

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid multipart form")
			return
		}
		if err := decodeMetadata(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
			return
		}

		uploads, cleanup, err := formUploads(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
			return
		}
		defer cleanup()
		req.Files = uploads
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if err.Error() == "http: request body too large" {
				writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
					"Request body too large (max 1MB)")
				return
			}
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
			return
		}
	}

	response, err := h.service.CreatePost(r.Context(), principal, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response)
}
