package posts

import (
	"context"

	"Murmur/internal/core/auth"
)

// Repository defines the interface for post persistence. Write methods
// that touch several tables run as a single transaction.
type Repository interface {
	// Create persists the post, its attachments, and its tag links; for
	// replies it also increments the parent's reply count.
	Create(ctx context.Context, post *Post) (*Post, error)

	GetByID(ctx context.Context, id int64) (*Post, error)

	// GetByIDs returns the posts that exist among ids, in no particular
	// order. Callers re-rank as needed.
	GetByIDs(ctx context.Context, ids []int64) ([]*Post, error)

	// Update persists field changes and rewrites the attachment and tag
	// link rows to match the post's current lists.
	Update(ctx context.Context, post *Post) (*Post, error)

	// Delete removes the post row; attachment rows and tag links
	// cascade. For replies the parent's reply count is decremented.
	Delete(ctx context.Context, id int64) error

	FindAll(ctx context.Context, filter PostFilter, page Page) ([]*Post, int64, error)
	ListReplies(ctx context.Context, parentID int64, page Page) ([]*Post, int64, error)
}

// Service defines the post business logic interface. Every
// authorization-sensitive call takes the acting principal explicitly.
type Service interface {
	CreatePost(ctx context.Context, principal auth.Principal, req CreatePostRequest) (*PostResponse, error)
	GetPost(ctx context.Context, principal auth.Principal, id int64) (*PostResponse, error)
	UpdatePost(ctx context.Context, principal auth.Principal, req UpdatePostRequest) (*PostResponse, error)
	DeletePost(ctx context.Context, principal auth.Principal, id int64) error

	ListPosts(ctx context.Context, filter PostFilter, page Page) (*PostPage, error)
	ListReplies(ctx context.Context, parentID int64, page Page) (*PostPage, error)
	SearchPosts(ctx context.Context, query string, page Page) (*PostPage, error)

	// Feed lists published posts from blogs the principal's active blog
	// follows, excluding muted follows.
	Feed(ctx context.Context, principal auth.Principal, page Page) (*PostPage, error)
}
