package tags

import "time"

// Tag is a unique label attachable to posts. Names are normalized to
// lowercase before storage, so "Art" and "art" resolve to the same tag.
type Tag struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Name      string    `json:"name" db:"name"`
	ID        int64     `json:"id" db:"id"`
}
