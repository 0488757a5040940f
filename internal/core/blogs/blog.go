package blogs

import "time"

// Blog is a user's posting surface. A user may own several blogs but
// exactly one of them is active at a time; new posts land on the
// active blog.
type Blog struct {
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
	BlogName          string    `json:"blogName" db:"blog_name"`                    // Unique slug (e.g., "gardening-notes")
	PreferredBlogName string    `json:"preferredBlogName" db:"preferred_blog_name"` // Display name, free-form
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"userId" db:"user_id"`
	Private           bool      `json:"private" db:"private"`
	IsActive          bool      `json:"isActive" db:"is_active"`
}

// CreateBlogRequest carries the fields needed to register a new blog.
type CreateBlogRequest struct {
	BlogName          string `json:"blogName"`
	PreferredBlogName string `json:"preferredBlogName"`
	UserID            int64  `json:"-"`
	Private           bool   `json:"private"`
}

// UpdateBlogRequest updates mutable blog fields. Nil pointers leave
// the current value untouched.
type UpdateBlogRequest struct {
	PreferredBlogName *string `json:"preferredBlogName,omitempty"`
	Private           *bool   `json:"private,omitempty"`
	BlogID            int64   `json:"-"`
}
