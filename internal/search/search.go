package search

import (
	"context"
	"time"
)

// PostDocument is the projection of a post stored in the search index.
// Blog names and tag names are denormalized onto the document so a
// single query covers every searchable field.
type PostDocument struct {
	CreatedAt         time.Time `json:"createdAt"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	BlogName          string    `json:"blogName"`
	PreferredBlogName string    `json:"preferredBlogName"`
	Tags              []string  `json:"tags"`
	ID                int64     `json:"id"`
	BlogID            int64     `json:"blogId"`
	Published         bool      `json:"published"`
}

// Request is a full-text query with paging.
type Request struct {
	Query string
	Page  int
	Size  int
}

// Result carries matching post IDs in rank order plus the total hit
// count. Callers hydrate full posts from the repository.
type Result struct {
	IDs   []int64
	Total int64
}

// Index abstracts the full-text search backend.
type Index interface {
	IndexPost(ctx context.Context, doc PostDocument) error
	DeletePost(ctx context.Context, id int64) error
	Search(ctx context.Context, req Request) (*Result, error)
}
