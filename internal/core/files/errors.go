package files

import "errors"

var (
	// ErrNotFound is returned when no stored file matches the given key.
	ErrNotFound = errors.New("file not found")

	// ErrEmptyUpload is returned for uploads with no content.
	ErrEmptyUpload = errors.New("upload has no content")

	// ErrTooLarge is returned when an upload exceeds the store's size limit.
	ErrTooLarge = errors.New("upload exceeds size limit")

	// ErrInvalidRoot is returned when a disk store is configured with an
	// empty root path.
	ErrInvalidRoot = errors.New("store root path cannot be empty")
)
