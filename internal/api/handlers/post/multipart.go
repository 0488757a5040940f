package post

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"Murmur/internal/core/files"
)

// Request body limits. JSON bodies stay small; multipart bodies carry
// attachment payloads.
const (
	maxJSONBody      = 1 << 20  // 1 MiB
	maxMultipartBody = 64 << 20 // 64 MiB across all parts
	multipartMemory  = 8 << 20  // in-memory buffer before disk spill
)

// uploadsField is the multipart field carrying attachment files;
// metadataField carries the JSON request document.
const (
	uploadsField  = "files"
	metadataField = "post"
)

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeMetadata unmarshals the JSON request document from the "post"
// form field into dst. An absent field leaves dst zeroed, which is a
// valid (file-only) request.
func decodeMetadata(r *http.Request, dst interface{}) error {
	meta := r.FormValue(metadataField)
	if meta == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(meta), dst); err != nil {
		return fmt.Errorf("invalid %s metadata: %w", metadataField, err)
	}
	return nil
}

// formUploads adapts the multipart file parts into store uploads, in
// the order the client sent them. The returned cleanup closes every
// opened part and must run after the service call consumed the readers.
func formUploads(r *http.Request) ([]files.Upload, func(), error) {
	noop := func() {}
	form := r.MultipartForm
	if form == nil {
		return nil, noop, nil
	}

	headers := form.File[uploadsField]
	uploads := make([]files.Upload, 0, len(headers))
	opened := make([]io.Closer, 0, len(headers))
	cleanup := func() {
		for _, part := range opened {
			if err := part.Close(); err != nil {
				slog.Warn("failed to close upload part", slog.String("error", err.Error()))
			}
		}
	}

	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			cleanup()
			return nil, noop, fmt.Errorf("failed to open upload %q: %w", header.Filename, err)
		}
		opened = append(opened, part)
		uploads = append(uploads, files.Upload{
			Content:     part,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		})
	}

	return uploads, cleanup, nil
}
