package follows

import (
	"time"

	"Murmur/internal/core/blogs"
)

// Follow is a directed edge between two blogs. Notify asks for new-post
// notifications; Muted keeps the edge but drops the followee from the
// follower's feed.
type Follow struct {
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	FollowerBlogID int64     `json:"followerBlogId" db:"follower_blog_id"`
	FolloweeBlogID int64     `json:"followeeBlogId" db:"followee_blog_id"`
	Notify         bool      `json:"notify" db:"notify"`
	Muted          bool      `json:"muted" db:"muted"`
}

// FollowView pairs a follow edge with the blog on its far side, for
// following/followers listings.
type FollowView struct {
	Blog      *blogs.Blog `json:"blog"`
	CreatedAt time.Time   `json:"createdAt"`
	Notify    bool        `json:"notify"`
	Muted     bool        `json:"muted"`
}
