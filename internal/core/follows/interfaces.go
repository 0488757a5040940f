package follows

import (
	"context"

	"Murmur/internal/core/auth"
)

// Repository defines the interface for follow edge persistence
type Repository interface {
	Create(ctx context.Context, follow *Follow) (*Follow, error)
	Get(ctx context.Context, followerBlogID, followeeBlogID int64) (*Follow, error)
	Update(ctx context.Context, follow *Follow) error
	Delete(ctx context.Context, followerBlogID, followeeBlogID int64) error

	ListFollowing(ctx context.Context, blogID int64, limit, offset int) ([]*FollowView, error)
	ListFollowers(ctx context.Context, blogID int64, limit, offset int) ([]*FollowView, error)
}

// Service defines the interface for follow business logic. The acting
// side of every edge is the principal's active blog.
type Service interface {
	Follow(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) (*Follow, error)
	Unfollow(ctx context.Context, principal auth.Principal, followeeBlogName string) error

	SetNotify(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) error
	SetMuted(ctx context.Context, principal auth.Principal, followeeBlogName string, muted bool) error

	ListFollowing(ctx context.Context, blogID int64, limit, offset int) ([]*FollowView, error)
	ListFollowers(ctx context.Context, blogID int64, limit, offset int) ([]*FollowView, error)
}
