package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"Murmur/internal/core/blogs"
	"Murmur/internal/core/follows"
)

type postgresFollowRepo struct {
	db *sql.DB
}

// NewFollowRepository creates a new PostgreSQL follow repository
func NewFollowRepository(db *sql.DB) follows.Repository {
	return &postgresFollowRepo{db: db}
}

func (r *postgresFollowRepo) Create(ctx context.Context, follow *follows.Follow) (*follows.Follow, error) {
	query := `
		INSERT INTO follows (follower_blog_id, followee_blog_id, notify, muted)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		follow.FollowerBlogID, follow.FolloweeBlogID, follow.Notify, follow.Muted,
	).Scan(&follow.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") &&
			strings.Contains(err.Error(), "follows_pkey") {
			return nil, follows.ErrAlreadyFollowing
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	return follow, nil
}

func (r *postgresFollowRepo) Get(ctx context.Context, followerBlogID, followeeBlogID int64) (*follows.Follow, error) {
	query := `
		SELECT follower_blog_id, followee_blog_id, notify, muted, created_at
		FROM follows
		WHERE follower_blog_id = $1 AND followee_blog_id = $2`

	follow := &follows.Follow{}
	err := r.db.QueryRowContext(ctx, query, followerBlogID, followeeBlogID).Scan(
		&follow.FollowerBlogID, &follow.FolloweeBlogID,
		&follow.Notify, &follow.Muted, &follow.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, follows.ErrFollowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get follow %d->%d: %w", followerBlogID, followeeBlogID, err)
	}

	return follow, nil
}

func (r *postgresFollowRepo) Update(ctx context.Context, follow *follows.Follow) error {
	query := `
		UPDATE follows
		SET notify = $3, muted = $4
		WHERE follower_blog_id = $1 AND followee_blog_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		follow.FollowerBlogID, follow.FolloweeBlogID, follow.Notify, follow.Muted)
	if err != nil {
		return fmt.Errorf("failed to update follow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return follows.ErrFollowNotFound
	}

	return nil
}

func (r *postgresFollowRepo) Delete(ctx context.Context, followerBlogID, followeeBlogID int64) error {
	query := `DELETE FROM follows WHERE follower_blog_id = $1 AND followee_blog_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerBlogID, followeeBlogID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return follows.ErrFollowNotFound
	}

	return nil
}

func (r *postgresFollowRepo) ListFollowing(ctx context.Context, blogID int64, limit, offset int) ([]*follows.FollowView, error) {
	query := fmt.Sprintf(`
		SELECT f.notify, f.muted, f.created_at, %s
		FROM follows f
		JOIN blogs b ON f.followee_blog_id = b.id
		WHERE f.follower_blog_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, prefixedBlogColumns("b"))

	return r.queryFollowViews(ctx, query, blogID, limit, offset)
}

func (r *postgresFollowRepo) ListFollowers(ctx context.Context, blogID int64, limit, offset int) ([]*follows.FollowView, error) {
	query := fmt.Sprintf(`
		SELECT f.notify, f.muted, f.created_at, %s
		FROM follows f
		JOIN blogs b ON f.follower_blog_id = b.id
		WHERE f.followee_blog_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`, prefixedBlogColumns("b"))

	return r.queryFollowViews(ctx, query, blogID, limit, offset)
}

func (r *postgresFollowRepo) queryFollowViews(ctx context.Context, query string, args ...interface{}) ([]*follows.FollowView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	defer closeRows(rows)

	var list []*follows.FollowView
	for rows.Next() {
		view := &follows.FollowView{Blog: &blogs.Blog{}}
		err := rows.Scan(
			&view.Notify, &view.Muted, &view.CreatedAt,
			&view.Blog.ID, &view.Blog.UserID, &view.Blog.BlogName,
			&view.Blog.PreferredBlogName, &view.Blog.Private, &view.Blog.IsActive,
			&view.Blog.CreatedAt, &view.Blog.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan follow row: %w", err)
		}
		list = append(list, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follow rows: %w", err)
	}

	return list, nil
}

// prefixedBlogColumns qualifies the blog column list with a table alias
// for use in JOINed selects.
func prefixedBlogColumns(alias string) string {
	cols := strings.Split(blogColumns, ", ")
	for i, col := range cols {
		cols[i] = alias + "." + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
