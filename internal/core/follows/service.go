package follows

import (
	"context"
	"fmt"

	"Murmur/internal/core/auth"
	"Murmur/internal/core/blogs"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

type followService struct {
	repo        Repository
	blogService blogs.Service
}

// NewFollowService creates a new follow service
func NewFollowService(repo Repository, blogService blogs.Service) Service {
	return &followService{
		repo:        repo,
		blogService: blogService,
	}
}

func (s *followService) Follow(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) (*Follow, error) {
	follower, followee, err := s.resolveEdge(ctx, principal, followeeBlogName)
	if err != nil {
		return nil, err
	}

	follow := &Follow{
		FollowerBlogID: follower.ID,
		FolloweeBlogID: followee.ID,
		Notify:         notify,
	}

	created, err := s.repo.Create(ctx, follow)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *followService) Unfollow(ctx context.Context, principal auth.Principal, followeeBlogName string) error {
	follower, followee, err := s.resolveEdge(ctx, principal, followeeBlogName)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, follower.ID, followee.ID)
}

func (s *followService) SetNotify(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) error {
	return s.updateEdge(ctx, principal, followeeBlogName, func(f *Follow) {
		f.Notify = notify
	})
}

func (s *followService) SetMuted(ctx context.Context, principal auth.Principal, followeeBlogName string, muted bool) error {
	return s.updateEdge(ctx, principal, followeeBlogName, func(f *Follow) {
		f.Muted = muted
	})
}

func (s *followService) ListFollowing(ctx context.Context, blogID int64, limit, offset int) ([]*FollowView, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListFollowing(ctx, blogID, limit, offset)
}

func (s *followService) ListFollowers(ctx context.Context, blogID int64, limit, offset int) ([]*FollowView, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListFollowers(ctx, blogID, limit, offset)
}

// resolveEdge turns (principal, followee name) into the two blogs of a
// follow edge, rejecting anonymous callers and self-follows.
func (s *followService) resolveEdge(ctx context.Context, principal auth.Principal, followeeBlogName string) (*blogs.Blog, *blogs.Blog, error) {
	if principal.Anonymous() {
		return nil, nil, blogs.ErrNotOwner
	}

	follower, err := s.blogService.ActiveBlog(ctx, principal.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve active blog: %w", err)
	}

	followee, err := s.blogService.GetBlogByName(ctx, followeeBlogName)
	if err != nil {
		return nil, nil, err
	}

	if follower.ID == followee.ID {
		return nil, nil, NewValidationError("blogName", "cannot follow your own blog")
	}

	return follower, followee, nil
}

func (s *followService) updateEdge(ctx context.Context, principal auth.Principal, followeeBlogName string, apply func(*Follow)) error {
	follower, followee, err := s.resolveEdge(ctx, principal, followeeBlogName)
	if err != nil {
		return err
	}

	follow, err := s.repo.Get(ctx, follower.ID, followee.ID)
	if err != nil {
		return err
	}

	apply(follow)
	return s.repo.Update(ctx, follow)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
