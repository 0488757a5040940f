package blogs

import (
	"context"

	"Murmur/internal/core/auth"
)

// Repository defines the interface for blog data persistence
type Repository interface {
	Create(ctx context.Context, blog *Blog) (*Blog, error)
	GetByID(ctx context.Context, id int64) (*Blog, error)
	GetByName(ctx context.Context, blogName string) (*Blog, error)
	GetActiveByUser(ctx context.Context, userID int64) (*Blog, error)
	ListByUser(ctx context.Context, userID int64) ([]*Blog, error)
	Update(ctx context.Context, blog *Blog) (*Blog, error)

	// SetActive marks the blog active and clears the flag on the
	// user's other blogs in the same transaction.
	SetActive(ctx context.Context, userID, blogID int64) error
}

// Service defines the interface for blog business logic
type Service interface {
	// CreateBlog registers a new blog for the principal. The first
	// blog a user creates becomes their active blog.
	CreateBlog(ctx context.Context, principal auth.Principal, req CreateBlogRequest) (*Blog, error)

	// CreateDefaultBlog provisions the starter blog for a freshly
	// registered user, named after their username.
	CreateDefaultBlog(ctx context.Context, userID int64, username string) (*Blog, error)

	GetBlog(ctx context.Context, id int64) (*Blog, error)
	GetBlogByName(ctx context.Context, blogName string) (*Blog, error)

	// ActiveBlog resolves the blog new posts should land on for the
	// given user.
	ActiveBlog(ctx context.Context, userID int64) (*Blog, error)

	ListUserBlogs(ctx context.Context, userID int64) ([]*Blog, error)

	UpdateBlog(ctx context.Context, principal auth.Principal, req UpdateBlogRequest) (*Blog, error)
	SetActiveBlog(ctx context.Context, principal auth.Principal, blogID int64) error
}
