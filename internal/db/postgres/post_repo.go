package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"Murmur/internal/core/posts"
	"Murmur/internal/core/tags"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// postColumns is the SELECT list shared by every post query. The posts
// table is aliased p and the owning blog b.
const postColumns = `
	p.id, p.blog_id, p.title, p.content, p.category, p.parent_id,
	p.reply_count, p.sensitive, p.published, p.created_at, p.updated_at,
	b.blog_name, b.preferred_blog_name`

func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx, "create post")

	query := `
		INSERT INTO posts (blog_id, title, content, category, parent_id, sensitive, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, reply_count, created_at, updated_at`

	err = tx.QueryRowContext(ctx, query,
		post.BlogID, post.Title, post.Content, post.Category, post.ParentID,
		post.Sensitive, post.Published,
	).Scan(&post.ID, &post.ReplyCount, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	if err := insertAttachments(ctx, tx, post); err != nil {
		return nil, err
	}
	if err := insertTagLinks(ctx, tx, post); err != nil {
		return nil, err
	}

	if post.ParentID != nil {
		_, err := tx.ExecContext(ctx,
			`UPDATE posts SET reply_count = reply_count + 1 WHERE id = $1`,
			*post.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to increment parent reply count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit post creation: %w", err)
	}

	return post, nil
}

func (r *postgresPostRepo) GetByID(ctx context.Context, id int64) (*posts.Post, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN blogs b ON p.blog_id = b.id
		WHERE p.id = $1`, postColumns)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}

	if err := r.hydrate(ctx, []*posts.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postgresPostRepo) GetByIDs(ctx context.Context, ids []int64) ([]*posts.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN blogs b ON p.blog_id = b.id
		WHERE p.id = ANY($1)`, postColumns)

	list, err := r.queryPosts(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx, "update post")

	query := `
		UPDATE posts
		SET title = $2, content = $3, sensitive = $4, published = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err = tx.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Content, post.Sensitive, post.Published,
	).Scan(&post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}

	// Attachment and tag link rows are rewritten to match the post's
	// current lists.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_attachments WHERE post_id = $1`, post.ID); err != nil {
		return nil, fmt.Errorf("failed to clear attachments: %w", err)
	}
	if err := insertAttachments(ctx, tx, post); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_tags WHERE post_id = $1`, post.ID); err != nil {
		return nil, fmt.Errorf("failed to clear tag links: %w", err)
	}
	if err := insertTagLinks(ctx, tx, post); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit post update: %w", err)
	}

	return post, nil
}

func (r *postgresPostRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer rollback(tx, "delete post")

	// No-op when the post has no parent.
	_, err = tx.ExecContext(ctx, `
		UPDATE posts SET reply_count = GREATEST(reply_count - 1, 0)
		WHERE id = (SELECT parent_id FROM posts WHERE id = $1)`, id)
	if err != nil {
		return fmt.Errorf("failed to decrement parent reply count: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post deletion: %w", err)
	}

	return nil
}

func (r *postgresPostRepo) FindAll(ctx context.Context, filter posts.PostFilter, page posts.Page) ([]*posts.Post, int64, error) {
	where, args := buildPostFilter(filter)

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM posts p
		JOIN blogs b ON p.blog_id = b.id
		%s`, where)

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN blogs b ON p.blog_id = b.id
		%s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d`, postColumns, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, (page.Number-1)*page.Size)

	list, err := r.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.hydrate(ctx, list); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *postgresPostRepo) ListReplies(ctx context.Context, parentID int64, page posts.Page) ([]*posts.Post, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE parent_id = $1 AND published = true`,
		parentID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count replies: %w", err)
	}

	// Replies read oldest first, the opposite of listings.
	query := fmt.Sprintf(`
		SELECT %s
		FROM posts p
		JOIN blogs b ON p.blog_id = b.id
		WHERE p.parent_id = $1 AND p.published = true
		ORDER BY p.created_at ASC, p.id ASC
		LIMIT $2 OFFSET $3`, postColumns)

	list, err := r.queryPosts(ctx, query, parentID, page.Size, (page.Number-1)*page.Size)
	if err != nil {
		return nil, 0, err
	}
	if err := r.hydrate(ctx, list); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

// buildPostFilter translates a PostFilter into a WHERE clause and its
// positional arguments.
func buildPostFilter(filter posts.PostFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("p.category = $%d", len(args)))
	}
	if filter.Published != nil {
		args = append(args, *filter.Published)
		conditions = append(conditions, fmt.Sprintf("p.published = $%d", len(args)))
	}
	if len(filter.BlogNames) > 0 {
		args = append(args, pq.Array(filter.BlogNames))
		conditions = append(conditions, fmt.Sprintf("b.blog_name = ANY($%d)", len(args)))
	}
	if len(filter.TagNames) > 0 {
		args = append(args, pq.Array(filter.TagNames))
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM post_tags pt
			JOIN tags t ON pt.tag_id = t.id
			WHERE pt.post_id = p.id AND t.name = ANY($%d))`, len(args)))
	}
	if filter.FollowedBy != 0 {
		// Muted follows stay out of the feed.
		args = append(args, filter.FollowedBy)
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM follows f
			WHERE f.follower_blog_id = $%d
			  AND f.followee_blog_id = p.blog_id
			  AND f.muted = false)`, len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer closeRows(rows)

	var list []*posts.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		list = append(list, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return list, nil
}

// hydrate loads attachments and tags for the given posts in two batch
// queries keyed by post id.
func (r *postgresPostRepo) hydrate(ctx context.Context, list []*posts.Post) error {
	if len(list) == 0 {
		return nil
	}

	byID := make(map[int64]*posts.Post, len(list))
	ids := make([]int64, 0, len(list))
	for _, p := range list {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	attRows, err := r.db.QueryContext(ctx, `
		SELECT id, post_id, blog_id, storage_key, file_name, content_type, byte_size, position, created_at
		FROM post_attachments
		WHERE post_id = ANY($1)
		ORDER BY post_id, position`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load attachments: %w", err)
	}
	defer closeRows(attRows)

	for attRows.Next() {
		var att posts.Attachment
		err := attRows.Scan(&att.ID, &att.PostID, &att.BlogID, &att.StorageKey,
			&att.FileName, &att.ContentType, &att.ByteSize, &att.Position, &att.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to scan attachment row: %w", err)
		}
		if p, ok := byID[att.PostID]; ok {
			p.Attachments = append(p.Attachments, att)
		}
	}
	if err := attRows.Err(); err != nil {
		return fmt.Errorf("error iterating attachment rows: %w", err)
	}

	tagRows, err := r.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.created_at
		FROM post_tags pt
		JOIN tags t ON pt.tag_id = t.id
		WHERE pt.post_id = ANY($1)
		ORDER BY pt.post_id, t.name`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer closeRows(tagRows)

	for tagRows.Next() {
		var postID int64
		var tag tags.Tag
		if err := tagRows.Scan(&postID, &tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan tag row: %w", err)
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("error iterating tag rows: %w", err)
	}

	return nil
}

func scanPost(row rowScanner) (*posts.Post, error) {
	post := &posts.Post{}
	var parentID sql.NullInt64

	err := row.Scan(
		&post.ID, &post.BlogID, &post.Title, &post.Content, &post.Category,
		&parentID, &post.ReplyCount, &post.Sensitive, &post.Published,
		&post.CreatedAt, &post.UpdatedAt,
		&post.BlogName, &post.PreferredBlogName,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		post.ParentID = &parentID.Int64
	}

	return post, nil
}

func insertAttachments(ctx context.Context, tx *sql.Tx, post *posts.Post) error {
	if len(post.Attachments) == 0 {
		return nil
	}

	query := `
		INSERT INTO post_attachments (id, post_id, blog_id, storage_key, file_name, content_type, byte_size, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	for i := range post.Attachments {
		att := &post.Attachments[i]
		att.PostID = post.ID
		err := tx.QueryRowContext(ctx, query,
			att.ID, att.PostID, att.BlogID, att.StorageKey, att.FileName,
			att.ContentType, att.ByteSize, att.Position,
		).Scan(&att.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert attachment %s: %w", att.ID, err)
		}
	}

	return nil
}

func insertTagLinks(ctx context.Context, tx *sql.Tx, post *posts.Post) error {
	if len(post.Tags) == 0 {
		return nil
	}

	query := `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	for _, tag := range post.Tags {
		if _, err := tx.ExecContext(ctx, query, post.ID, tag.ID); err != nil {
			return fmt.Errorf("failed to link tag %q: %w", tag.Name, err)
		}
	}

	return nil
}
