package blogs

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"Murmur/internal/core/auth"
)

// Blog names are URL path segments, so they follow slug rules:
// lowercase alphanumeric with single hyphens between runs.
var blogNameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

const (
	minBlogNameLength = 3
	maxBlogNameLength = 64
)

type blogService struct {
	repo Repository
}

// NewBlogService creates a new blog service
func NewBlogService(repo Repository) Service {
	return &blogService{repo: repo}
}

func (s *blogService) CreateBlog(ctx context.Context, principal auth.Principal, req CreateBlogRequest) (*Blog, error) {
	if principal.Anonymous() {
		return nil, ErrNotOwner
	}

	name := NormalizeBlogName(req.BlogName)
	if err := ValidateBlogName(name); err != nil {
		return nil, err
	}

	preferred := strings.TrimSpace(req.PreferredBlogName)
	if preferred == "" {
		preferred = name
	}

	blog := &Blog{
		BlogName:          name,
		PreferredBlogName: preferred,
		UserID:            principal.UserID,
		Private:           req.Private,
	}

	created, err := s.repo.Create(ctx, blog)
	if err != nil {
		return nil, err
	}

	// First blog becomes active automatically so the user can post
	// without an extra setup step.
	existing, err := s.repo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user blogs: %w", err)
	}
	if len(existing) == 1 {
		if err := s.repo.SetActive(ctx, principal.UserID, created.ID); err != nil {
			return nil, fmt.Errorf("failed to activate first blog: %w", err)
		}
		created.IsActive = true
	}

	return created, nil
}

func (s *blogService) CreateDefaultBlog(ctx context.Context, userID int64, username string) (*Blog, error) {
	name := NormalizeBlogName(username)
	if err := ValidateBlogName(name); err != nil {
		return nil, err
	}

	blog := &Blog{
		BlogName:          name,
		PreferredBlogName: strings.TrimSpace(username),
		UserID:            userID,
	}

	created, err := s.repo.Create(ctx, blog)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, userID, created.ID); err != nil {
		return nil, fmt.Errorf("failed to activate default blog: %w", err)
	}
	created.IsActive = true

	return created, nil
}

func (s *blogService) GetBlog(ctx context.Context, id int64) (*Blog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *blogService) GetBlogByName(ctx context.Context, blogName string) (*Blog, error) {
	name := NormalizeBlogName(blogName)
	if name == "" {
		return nil, NewValidationError("blogName", "blog name is required")
	}
	return s.repo.GetByName(ctx, name)
}

func (s *blogService) ActiveBlog(ctx context.Context, userID int64) (*Blog, error) {
	return s.repo.GetActiveByUser(ctx, userID)
}

func (s *blogService) ListUserBlogs(ctx context.Context, userID int64) ([]*Blog, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *blogService) UpdateBlog(ctx context.Context, principal auth.Principal, req UpdateBlogRequest) (*Blog, error) {
	blog, err := s.repo.GetByID(ctx, req.BlogID)
	if err != nil {
		return nil, err
	}

	if !principal.CanManageUser(blog.UserID) {
		return nil, ErrNotOwner
	}

	if req.PreferredBlogName != nil {
		preferred := strings.TrimSpace(*req.PreferredBlogName)
		if preferred == "" {
			return nil, NewValidationError("preferredBlogName", "preferred blog name cannot be blank")
		}
		blog.PreferredBlogName = preferred
	}
	if req.Private != nil {
		blog.Private = *req.Private
	}

	return s.repo.Update(ctx, blog)
}

func (s *blogService) SetActiveBlog(ctx context.Context, principal auth.Principal, blogID int64) error {
	blog, err := s.repo.GetByID(ctx, blogID)
	if err != nil {
		return err
	}

	if !principal.CanManageUser(blog.UserID) {
		return ErrNotOwner
	}

	return s.repo.SetActive(ctx, blog.UserID, blogID)
}

// NormalizeBlogName lowers and slugifies a requested blog name so
// "My Garden" and "my-garden" resolve to the same record.
func NormalizeBlogName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}
	return strings.Trim(name, "-")
}

// ValidateBlogName checks the slug format after normalization.
func ValidateBlogName(name string) error {
	if name == "" {
		return NewValidationError("blogName", "blog name is required")
	}
	if len(name) < minBlogNameLength || len(name) > maxBlogNameLength {
		return NewValidationError("blogName",
			fmt.Sprintf("blog name must be between %d and %d characters", minBlogNameLength, maxBlogNameLength))
	}
	if !blogNameRegex.MatchString(name) {
		return ErrInvalidBlogName
	}
	return nil
}
