package post

import (
	"encoding/json"
	"fmt"
	"net/http"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/posts"
)

// positionsField carries the target index for each uploaded file, as a
// JSON int array parallel to the "files" parts. Absent means append.
const positionsField = "filePositions"

// appendPosition is clamped to the end of the attachment list by the
// reconciliation logic.
const appendPosition = 1 << 30

// UpdateHandler handles post update requests
type UpdateHandler struct {
	service posts.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service posts.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PATCH /v1/posts/{postID}.
// Accepts JSON for field/tag/ordering changes, or a multipart form when
// new files ride along. New files land at the indexes given in
// "filePositions", appended when the field is absent.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	var req posts.UpdatePostRequest

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

		positions, err := parsePositions(r.FormValue(positionsField), len(uploads))
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
			return
		}
		for i, upload := range uploads {
			req.NewFiles = append(req.NewFiles, posts.PositionedUpload{
				Upload:   upload,
				Position: positions[i],
			})
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
			return
		}
	}

	req.PostID = id

	response, err := h.service.UpdatePost(r.Context(), middleware.GetPrincipal(r), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// parsePositions decodes the filePositions field. When present it must
// list exactly one non-negative index per uploaded file.
func parsePositions(raw string, uploads int) ([]int, error) {
	positions := make([]int, uploads)
	if raw == "" {
		for i := range positions {
			positions[i] = appendPosition
		}
		return positions, nil
	}

	if err := json.Unmarshal([]byte(raw), &positions); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", positionsField, err)
	}
	if len(positions) != uploads {
		return nil, fmt.Errorf("%s lists %d positions for %d files", positionsField, len(positions), uploads)
	}
	for _, p := range positions {
		if p < 0 {
			return nil, fmt.Errorf("%s entries must be non-negative", positionsField)
		}
	}

	return positions, nil
}
