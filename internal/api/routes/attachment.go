package routes

import (
	"Murmur/internal/api/handlers/attachment"
	"Murmur/internal/core/files"

	"github.com/go-chi/chi/v5"
)

// FileURLBase is the public prefix for stored attachment bytes; post
// responses build attachment URLs from it.
const FileURLBase = "/v1/files/"

// RegisterAttachmentRoutes registers the attachment byte endpoint
func RegisterAttachmentRoutes(r chi.Router, store files.Store) {
	serveHandler := attachment.NewServeHandler(store)

	r.Get(FileURLBase+"*", serveHandler.HandleServe)
}
