package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Murmur/internal/core/tags"
)

type postgresTagRepo struct {
	db *sql.DB
}

// NewTagRepository creates a new PostgreSQL tag repository
func NewTagRepository(db *sql.DB) tags.Repository {
	return &postgresTagRepo{db: db}
}

func (r *postgresTagRepo) Upsert(ctx context.Context, name string) (*tags.Tag, error) {
	// DO UPDATE rather than DO NOTHING so RETURNING yields the row on
	// the conflict path too.
	query := `
		INSERT INTO tags (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at`

	tag := &tags.Tag{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tag %q: %w", name, err)
	}

	return tag, nil
}

func (r *postgresTagRepo) GetByName(ctx context.Context, name string) (*tags.Tag, error) {
	query := `SELECT id, name, created_at FROM tags WHERE name = $1`

	tag := &tags.Tag{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, tags.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tag %q: %w", name, err)
	}

	return tag, nil
}
