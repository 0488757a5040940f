package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"Murmur/internal/core/blogs"
)

type postgresBlogRepo struct {
	db *sql.DB
}

// NewBlogRepository creates a new PostgreSQL blog repository
func NewBlogRepository(db *sql.DB) blogs.Repository {
	return &postgresBlogRepo{db: db}
}

const blogColumns = `id, user_id, blog_name, preferred_blog_name, private, is_active, created_at, updated_at`

func (r *postgresBlogRepo) Create(ctx context.Context, blog *blogs.Blog) (*blogs.Blog, error) {
	query := `
		INSERT INTO blogs (user_id, blog_name, preferred_blog_name, private)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		blog.UserID, blog.BlogName, blog.PreferredBlogName, blog.Private,
	).Scan(&blog.ID, &blog.IsActive, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") &&
			strings.Contains(err.Error(), "blogs_blog_name_key") {
			return nil, blogs.ErrBlogNameTaken
		}
		return nil, fmt.Errorf("failed to create blog: %w", err)
	}

	return blog, nil
}

func (r *postgresBlogRepo) GetByID(ctx context.Context, id int64) (*blogs.Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs WHERE id = $1`, blogColumns)

	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, blogs.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog %d: %w", id, err)
	}

	return blog, nil
}

func (r *postgresBlogRepo) GetByName(ctx context.Context, blogName string) (*blogs.Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs WHERE blog_name = $1`, blogColumns)

	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, blogName))
	if err == sql.ErrNoRows {
		return nil, blogs.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog %q: %w", blogName, err)
	}

	return blog, nil
}

func (r *postgresBlogRepo) GetActiveByUser(ctx context.Context, userID int64) (*blogs.Blog, error) {
	query := fmt.Sprintf(`SELECT %s FROM blogs WHERE user_id = $1 AND is_active = true`, blogColumns)

	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, blogs.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active blog for user %d: %w", userID, err)
	}

	return blog, nil
}

func (r *postgresBlogRepo) ListByUser(ctx context.Context, userID int64) ([]*blogs.Blog, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM blogs
		WHERE user_id = $1
		ORDER BY created_at ASC`, blogColumns)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blogs for user %d: %w", userID, err)
	}
	defer closeRows(rows)

	var list []*blogs.Blog
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog row: %w", err)
		}
		list = append(list, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blog rows: %w", err)
	}

	return list, nil
}

func (r *postgresBlogRepo) Update(ctx context.Context, blog *blogs.Blog) (*blogs.Blog, error) {
	query := `
		UPDATE blogs
		SET preferred_blog_name = $2, private = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		blog.ID, blog.PreferredBlogName, blog.Private,
	).Scan(&blog.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, blogs.ErrBlogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update blog %d: %w", blog.ID, err)
	}

	return blog, nil
}

func (r *postgresBlogRepo) SetActive(ctx context.Context, userID, blogID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx, "set active blog")

	_, err = tx.ExecContext(ctx,
		`UPDATE blogs SET is_active = false WHERE user_id = $1 AND is_active = true`,
		userID)
	if err != nil {
		return fmt.Errorf("failed to clear active blog: %w", err)
	}

	// The user_id guard keeps one user from activating another's blog.
	result, err := tx.ExecContext(ctx,
		`UPDATE blogs SET is_active = true WHERE id = $1 AND user_id = $2`,
		blogID, userID)
	if err != nil {
		return fmt.Errorf("failed to set active blog: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return blogs.ErrBlogNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit active blog change: %w", err)
	}

	return nil
}

func scanBlog(row rowScanner) (*blogs.Blog, error) {
	blog := &blogs.Blog{}
	err := row.Scan(
		&blog.ID, &blog.UserID, &blog.BlogName, &blog.PreferredBlogName,
		&blog.Private, &blog.IsActive, &blog.CreatedAt, &blog.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return blog, nil
}
