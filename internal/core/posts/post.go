package posts

import (
	"time"

	"Murmur/internal/core/files"
	"Murmur/internal/core/tags"
)

// Post categories. Root posts are top-level; replies hang off a parent.
const (
	CategoryRoot  = "root"
	CategoryReply = "reply"
)

// Post represents a post row plus its hydrated blog fields, ordered
// attachments, and tag set.
type Post struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
	ParentID  *int64    `json:"parentId,omitempty" db:"parent_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Category  string    `json:"category" db:"category"`
	// BlogName and PreferredBlogName are hydrated by the repository
	// from the owning blog row.
	BlogName          string       `json:"blogName" db:"blog_name"`
	PreferredBlogName string       `json:"preferredBlogName" db:"preferred_blog_name"`
	Attachments       []Attachment `json:"attachments"`
	Tags              []tags.Tag   `json:"tags"`
	ID                int64        `json:"id" db:"id"`
	BlogID            int64        `json:"blogId" db:"blog_id"`
	ReplyCount        int          `json:"replyCount" db:"reply_count"`
	Sensitive         bool         `json:"sensitive" db:"sensitive"`
	Published         bool         `json:"published" db:"published"`
}

// Attachment is one entry in a post's ordered attachment list. The
// bytes live in the file store under StorageKey; the post owns the
// ordering. Positions form a dense sequence 0..n-1 at all times.
type Attachment struct {
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	ID          string    `json:"id" db:"id"`
	StorageKey  string    `json:"-" db:"storage_key"`
	FileName    string    `json:"fileName" db:"file_name"`
	ContentType string    `json:"contentType" db:"content_type"`
	PostID      int64     `json:"-" db:"post_id"`
	BlogID      int64     `json:"-" db:"blog_id"`
	ByteSize    int64     `json:"byteSize" db:"byte_size"`
	Position    int       `json:"position" db:"position"`
}

// CreatePostRequest represents input for creating a new post. Files
// arrive from the multipart form and are attached in upload order.
type CreatePostRequest struct {
	ParentID  *int64         `json:"parentId,omitempty"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	TagNames  []string       `json:"tags,omitempty"`
	Files     []files.Upload `json:"-"`
	Sensitive bool           `json:"sensitive"`
	Published bool           `json:"published"`
}

// PositionedUpload pairs a new upload with the index it should occupy
// in the attachment list after reconciliation.
type PositionedUpload struct {
	Upload   files.Upload
	Position int
}

// UpdatePostRequest represents input for updating a post. Nil pointers
// leave the current value untouched.
type UpdatePostRequest struct {
	Title     *string  `json:"title,omitempty"`
	Content   *string  `json:"content,omitempty"`
	Sensitive *bool    `json:"sensitive,omitempty"`
	Published *bool    `json:"published,omitempty"`
	TagNames  []string `json:"tags,omitempty"`
	// KeepAttachmentIDs is the retained set: current attachments absent
	// from it are removed and their files deleted. Nil keeps everything.
	KeepAttachmentIDs []string `json:"keepAttachmentIds,omitempty"`
	// AttachmentOrder re-orders retained attachments. Every id listed
	// must be attached to the post or the update fails validation.
	AttachmentOrder []string           `json:"attachmentOrder,omitempty"`
	NewFiles        []PositionedUpload `json:"-"`
	PostID          int64              `json:"-"`
}

// BlogRef is the minimal owning-blog info embedded in post views.
type BlogRef struct {
	BlogName          string `json:"blogName"`
	PreferredBlogName string `json:"preferredBlogName"`
	ID                int64  `json:"id"`
}

// AttachmentView is the transport shape of one attachment.
type AttachmentView struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	URL         string `json:"url"`
	ByteSize    int64  `json:"byteSize"`
	Position    int    `json:"position"`
}

// PostResponse is the transport shape for a single post.
type PostResponse struct {
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	ParentID    *int64           `json:"parentId,omitempty"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Category    string           `json:"category"`
	Blog        BlogRef          `json:"blog"`
	Tags        []string         `json:"tags"`
	Attachments []AttachmentView `json:"attachments"`
	ID          int64            `json:"id"`
	ReplyCount  int              `json:"replyCount"`
	Sensitive   bool             `json:"sensitive"`
	Published   bool             `json:"published"`
}

// Page selects one page of a listing.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"size"`
}

// PostPage is one page of post responses plus paging metadata.
type PostPage struct {
	Items []PostResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// PostFilter narrows listings. The service defaults Category to root
// and Published to true when unset.
type PostFilter struct {
	BlogNames []string `json:"blogNames,omitempty"`
	TagNames  []string `json:"tagNames,omitempty"`
	Category  string   `json:"category,omitempty"`
	Published *bool    `json:"published,omitempty"`
	// FollowedBy restricts results to posts authored by blogs this blog
	// follows, excluding muted follows.
	FollowedBy int64 `json:"followedBy,omitempty"`
}
