package files

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiskStore implements Store on the local filesystem.
// Key format: {blogID}/{uuid}{ext} under the configured root, so one blog's
// attachments never collide with another's and keys stay path-safe.
type DiskStore struct {
	root     string
	maxBytes int64
}

// DefaultMaxUploadBytes bounds a single attachment (10 MiB).
const DefaultMaxUploadBytes = 10 << 20

// NewDiskStore creates a disk-backed file store rooted at root.
// maxBytes <= 0 selects DefaultMaxUploadBytes.
func NewDiskStore(root string, maxBytes int64) (*DiskStore, error) {
	if root == "" {
		return nil, ErrInvalidRoot
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store root: %w", err)
	}
	return &DiskStore{root: root, maxBytes: maxBytes}, nil
}

// safeExt extracts a filesystem-safe extension from a client filename.
// Anything that could escape the store directory is stripped.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	ext = strings.ReplaceAll(ext, "/", "")
	ext = strings.ReplaceAll(ext, "\\", "")
	ext = strings.ReplaceAll(ext, "..", "")
	ext = strings.ReplaceAll(ext, "\x00", "")
	if len(ext) > 16 {
		return ""
	}
	return ext
}

// safeKey sanitizes a store key before it touches the filesystem,
// preventing path traversal out of the root.
func safeKey(key string) string {
	s := strings.ReplaceAll(key, "\\", "/")
	s = strings.ReplaceAll(s, "..", "")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimPrefix(s, "/")
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(safeKey(key)))
}

// Save writes the upload to disk atomically: bytes land in a temp file that
// is renamed into place, so readers never observe a partial write.
func (s *DiskStore) Save(ctx context.Context, blogID int64, upload Upload) (*StoredFile, error) {
	if upload.Content == nil {
		return nil, ErrEmptyUpload
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%d/%s%s", blogID, uuid.NewString(), safeExt(upload.Filename))
	path := s.path(key)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create blog directory: %w", err)
	}

	tmpPath := path + ".tmp"
	dst, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// +1 so a stream exactly at the limit passes and one byte over fails.
	written, err := io.Copy(dst, io.LimitReader(upload.Content, s.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.discardTemp(tmpPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written == 0 {
		s.discardTemp(tmpPath)
		return nil, ErrEmptyUpload
	}
	if written > s.maxBytes {
		s.discardTemp(tmpPath)
		return nil, ErrTooLarge
	}

	if err := os.Rename(tmpPath, path); err != nil {
		s.discardTemp(tmpPath)
		return nil, fmt.Errorf("failed to finalize file: %w", err)
	}

	return &StoredFile{
		Key:         key,
		Filename:    filepath.Base(upload.Filename),
		ContentType: upload.ContentType,
		Size:        written,
	}, nil
}

func (s *DiskStore) discardTemp(tmpPath string) {
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temp upload file",
			"path", tmpPath,
			"error", err,
		)
	}
}

func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
