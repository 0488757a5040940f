package files

import (
	"context"
	"io"
)

// Store is the file store adapter: binary attachment payloads live here,
// referenced by key. Ordering and ownership metadata live on the post.
type Store interface {
	// Save writes the upload under the owning blog and returns its
	// descriptor. The returned key is stable and opaque to callers.
	Save(ctx context.Context, blogID int64, upload Upload) (*StoredFile, error)

	// Open returns a reader over the stored bytes for key.
	// Returns ErrNotFound if the key does not exist.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the stored bytes for key. Deleting a missing key is
	// not an error (idempotent delete).
	Delete(ctx context.Context, key string) error
}
