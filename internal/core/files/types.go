package files

import "io"

// Upload is a file received from a client, not yet stored.
type Upload struct {
	Content     io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// StoredFile describes a file after the store has accepted it. Key is the
// store-assigned reference used for later Open/Delete calls.
type StoredFile struct {
	Key         string
	Filename    string
	ContentType string
	Size        int64
}
