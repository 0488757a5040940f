package posts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"Murmur/internal/cache"
	"Murmur/internal/core/auth"
	"Murmur/internal/core/blogs"
	"Murmur/internal/core/files"
	"Murmur/internal/core/tags"
	"Murmur/internal/search"
)

// Cache namespaces. Single posts are keyed by id; listings are keyed by
// a hash of filter+page and invalidated wholesale on any write.
const (
	cachePostNamespace    = "post"
	cacheListingNamespace = "listing"
)

const (
	maxTitleLength   = 300
	maxContentLength = 50000
	defaultPageSize  = 15
	maxPageSize      = 50
)

type postService struct {
	repo        Repository
	blogService blogs.Service
	tagRegistry tags.Registry
	fileStore   files.Store
	index       search.Index
	cache       cache.Cache
	fileURLBase string
}

// NewPostService creates a new post service
// index and cache can be nil if not needed (e.g., in tests or minimal setups)
func NewPostService(
	repo Repository,
	blogService blogs.Service,
	tagRegistry tags.Registry,
	fileStore files.Store,
	index search.Index, // Optional: can be nil
	cacheStore cache.Cache, // Optional: can be nil
	fileURLBase string,
) Service {
	return &postService{
		repo:        repo,
		blogService: blogService,
		tagRegistry: tagRegistry,
		fileStore:   fileStore,
		index:       index,
		cache:       cacheStore,
		fileURLBase: fileURLBase,
	}
}

// CreatePost creates a post on the principal's active blog.
// Flow:
// 1. Validate input
// 2. Resolve the acting blog
// 3. If replying, load the parent (NotFound if absent)
// 4. Store uploads and attach them in upload order
// 5. Resolve tag names through the registry
// 6. Persist post + attachments + tag links in one transaction
// 7. Mirror into the search index, drop stale listing cache entries
func (s *postService) CreatePost(ctx context.Context, principal auth.Principal, req CreatePostRequest) (*PostResponse, error) {
	if principal.Anonymous() {
		return nil, ErrAccessDenied
	}
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	blog, err := s.blogService.ActiveBlog(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting blog: %w", err)
	}

	post := &Post{
		Title:             strings.TrimSpace(req.Title),
		Content:           req.Content,
		Category:          CategoryRoot,
		BlogID:            blog.ID,
		BlogName:          blog.BlogName,
		PreferredBlogName: blog.PreferredBlogName,
		Sensitive:         req.Sensitive,
		Published:         req.Published,
	}

	// A reply's parent must exist before the link is created.
	if req.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		post.Category = CategoryReply
		post.ParentID = &parent.ID
	}

	for i, upload := range req.Files {
		stored, err := s.fileStore.Save(ctx, blog.ID, upload)
		if err != nil {
			return nil, fmt.Errorf("failed to store upload %q: %w", upload.Filename, err)
		}
		post.Attachments = append(post.Attachments, Attachment{
			ID:          uuid.NewString(),
			BlogID:      blog.ID,
			StorageKey:  stored.Key,
			FileName:    stored.Filename,
			ContentType: stored.ContentType,
			ByteSize:    stored.Size,
			Position:    i,
		})
	}

	post.Tags, err = s.tagRegistry.FindOrCreateAll(ctx, req.TagNames)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if err := s.indexPost(ctx, created); err != nil {
		return nil, err
	}
	s.invalidateListings(ctx)

	return s.toResponse(created), nil
}

// GetPost returns a single post. Published posts read through the
// per-post cache; drafts are only visible to their owner and are
// reported as NotFound to anyone else.
func (s *postService) GetPost(ctx context.Context, principal auth.Principal, id int64) (*PostResponse, error) {
	// The cache only ever holds published posts, so a hit is safe to
	// serve to any caller.
	if resp := s.cachedPost(ctx, id); resp != nil {
		return resp, nil
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.Published && !principal.CanManage(post.BlogID) {
		return nil, NewNotFoundError("post", strconv.FormatInt(id, 10))
	}

	resp := s.toResponse(post)
	s.cachePost(ctx, resp)
	return resp, nil
}

// UpdatePost applies field updates, attachment reconciliation, and new
// tags to a post the principal manages.
func (s *postService) UpdatePost(ctx context.Context, principal auth.Principal, req UpdatePostRequest) (*PostResponse, error) {
	post, err := s.repo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if !principal.CanManage(post.BlogID) {
		return nil, ErrAccessDenied
	}

	if err := applyFieldUpdates(post, req); err != nil {
		return nil, err
	}

	if err := s.reconcileAttachments(ctx, post, req); err != nil {
		return nil, err
	}

	if len(req.TagNames) > 0 {
		newTags, err := s.tagRegistry.FindOrCreateAll(ctx, req.TagNames)
		if err != nil {
			return nil, err
		}
		post.Tags = mergeTags(post.Tags, newTags)
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}

	if err := s.indexPost(ctx, updated); err != nil {
		return nil, err
	}
	s.invalidatePost(ctx, updated.ID)
	s.invalidateListings(ctx)

	return s.toResponse(updated), nil
}

// DeletePost removes a post the principal manages. Attachment files are
// deleted from the store before the post row.
func (s *postService) DeletePost(ctx context.Context, principal auth.Principal, id int64) error {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !principal.CanManage(post.BlogID) {
		return ErrAccessDenied
	}

	for _, att := range post.Attachments {
		if err := s.fileStore.Delete(ctx, att.StorageKey); err != nil {
			return fmt.Errorf("failed to delete attachment %s: %w", att.ID, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}

	if s.index != nil {
		if err := s.index.DeletePost(ctx, id); err != nil {
			return fmt.Errorf("failed to remove post %d from search index: %w", id, err)
		}
	}

	s.invalidatePost(ctx, id)
	s.invalidateListings(ctx)
	return nil
}

// ListPosts runs a filtered, paginated listing through the listing
// cache.
func (s *postService) ListPosts(ctx context.Context, filter PostFilter, page Page) (*PostPage, error) {
	applyFilterDefaults(&filter)
	normalizePage(&page)

	key := listingKey(filter, page)
	if cached := s.cachedListing(ctx, key); cached != nil {
		return cached, nil
	}

	items, total, err := s.repo.FindAll(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	result := s.toPage(items, total, page)
	s.cacheListing(ctx, key, result)
	return result, nil
}

// ListReplies returns one page of a post's reply collection.
func (s *postService) ListReplies(ctx context.Context, parentID int64, page Page) (*PostPage, error) {
	normalizePage(&page)

	if _, err := s.repo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}

	items, total, err := s.repo.ListReplies(ctx, parentID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies of post %d: %w", parentID, err)
	}

	return s.toPage(items, total, page), nil
}

// SearchPosts delegates to the search index and hydrates hits from the
// repository in index-rank order.
func (s *postService) SearchPosts(ctx context.Context, query string, page Page) (*PostPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, NewValidationError("q", "search query is required")
	}
	if s.index == nil {
		return nil, fmt.Errorf("search index is not configured")
	}
	normalizePage(&page)

	found, err := s.index.Search(ctx, search.Request{
		Query: query,
		Page:  page.Number,
		Size:  page.Size,
	})
	if err != nil {
		return nil, err
	}

	result := &PostPage{
		Items: []PostResponse{},
		Total: found.Total,
		Page:  page.Number,
		Size:  page.Size,
	}
	if len(found.IDs) == 0 {
		return result, nil
	}

	hydrated, err := s.repo.GetByIDs(ctx, found.IDs)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate search results: %w", err)
	}

	byID := lo.Associate(hydrated, func(p *Post) (int64, *Post) { return p.ID, p })
	for _, id := range found.IDs {
		if post, ok := byID[id]; ok {
			result.Items = append(result.Items, *s.toResponse(post))
		}
	}
	return result, nil
}

// Feed lists published posts from blogs the principal's active blog
// follows.
func (s *postService) Feed(ctx context.Context, principal auth.Principal, page Page) (*PostPage, error) {
	if principal.Anonymous() {
		return nil, ErrAccessDenied
	}

	blog, err := s.blogService.ActiveBlog(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting blog: %w", err)
	}

	return s.ListPosts(ctx, PostFilter{FollowedBy: blog.ID}, page)
}

// reconcileAttachments applies the retained set, the requested
// ordering, and new uploads to post.Attachments. The full plan is
// validated before any file is touched, so a rejected request leaves
// both the post and the file store unchanged.
func (s *postService) reconcileAttachments(ctx context.Context, post *Post, req UpdatePostRequest) error {
	kept := post.Attachments
	var removed []Attachment
	if req.KeepAttachmentIDs != nil {
		kept, removed = partitionRetained(post.Attachments, req.KeepAttachmentIDs)
	}

	if len(req.AttachmentOrder) > 0 {
		if err := validateOrder(kept, req.AttachmentOrder); err != nil {
			return err
		}
		kept = applyOrder(kept, req.AttachmentOrder)
	}

	for _, att := range removed {
		if err := s.fileStore.Delete(ctx, att.StorageKey); err != nil {
			return fmt.Errorf("failed to delete attachment %s: %w", att.ID, err)
		}
	}

	for _, upload := range req.NewFiles {
		stored, err := s.fileStore.Save(ctx, post.BlogID, upload.Upload)
		if err != nil {
			return fmt.Errorf("failed to store upload %q: %w", upload.Upload.Filename, err)
		}
		kept = insertAt(kept, Attachment{
			ID:          uuid.NewString(),
			PostID:      post.ID,
			BlogID:      post.BlogID,
			StorageKey:  stored.Key,
			FileName:    stored.Filename,
			ContentType: stored.ContentType,
			ByteSize:    stored.Size,
		}, upload.Position)
	}

	renumber(kept)
	post.Attachments = kept
	return nil
}

// indexPost mirrors the post into the search index. Unpublished posts
// are removed instead so drafts never surface in search.
func (s *postService) indexPost(ctx context.Context, post *Post) error {
	if s.index == nil {
		return nil
	}

	if !post.Published {
		if err := s.index.DeletePost(ctx, post.ID); err != nil {
			return fmt.Errorf("failed to remove post %d from search index: %w", post.ID, err)
		}
		return nil
	}

	doc := search.PostDocument{
		ID:                post.ID,
		BlogID:            post.BlogID,
		Title:             post.Title,
		Content:           post.Content,
		BlogName:          post.BlogName,
		PreferredBlogName: post.PreferredBlogName,
		Tags:              tagNames(post.Tags),
		Published:         post.Published,
		CreatedAt:         post.CreatedAt,
	}
	if err := s.index.IndexPost(ctx, doc); err != nil {
		return fmt.Errorf("failed to index post %d: %w", post.ID, err)
	}
	return nil
}

// Cache plumbing. Cache failures are logged and swallowed: a dead cache
// degrades latency, not correctness.

func (s *postService) cachedPost(ctx context.Context, id int64) *PostResponse {
	if s.cache == nil {
		return nil
	}
	body, err := s.cache.Get(ctx, cachePostNamespace, strconv.FormatInt(id, 10))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("post cache read failed", "post_id", id, "error", err)
		}
		return nil
	}
	var resp PostResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.Warn("post cache entry corrupt", "post_id", id, "error", err)
		return nil
	}
	return &resp
}

func (s *postService) cachePost(ctx context.Context, resp *PostResponse) {
	if s.cache == nil || !resp.Published {
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cachePostNamespace, strconv.FormatInt(resp.ID, 10), body); err != nil {
		slog.Warn("failed to cache post", "post_id", resp.ID, "error", err)
	}
}

func (s *postService) cachedListing(ctx context.Context, key string) *PostPage {
	if s.cache == nil {
		return nil
	}
	body, err := s.cache.Get(ctx, cacheListingNamespace, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("listing cache read failed", "key", key, "error", err)
		}
		return nil
	}
	var page PostPage
	if err := json.Unmarshal(body, &page); err != nil {
		slog.Warn("listing cache entry corrupt", "key", key, "error", err)
		return nil
	}
	return &page
}

func (s *postService) cacheListing(ctx context.Context, key string, page *PostPage) {
	if s.cache == nil {
		return
	}
	body, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheListingNamespace, key, body); err != nil {
		slog.Warn("failed to cache listing", "key", key, "error", err)
	}
}

func (s *postService) invalidatePost(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cachePostNamespace, strconv.FormatInt(id, 10)); err != nil {
		slog.Warn("failed to invalidate post cache", "post_id", id, "error", err)
	}
}

func (s *postService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx, cacheListingNamespace); err != nil {
		slog.Warn("failed to invalidate listing cache", "error", err)
	}
}

// listingKey derives a stable cache key from the filter and page.
func listingKey(filter PostFilter, page Page) string {
	payload, _ := json.Marshal(struct {
		Filter PostFilter `json:"filter"`
		Page   Page       `json:"page"`
	}{filter, page})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func (s *postService) toResponse(post *Post) *PostResponse {
	return &PostResponse{
		ID:         post.ID,
		Title:      post.Title,
		Content:    post.Content,
		Category:   post.Category,
		ParentID:   post.ParentID,
		ReplyCount: post.ReplyCount,
		Sensitive:  post.Sensitive,
		Published:  post.Published,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
		Blog: BlogRef{
			ID:                post.BlogID,
			BlogName:          post.BlogName,
			PreferredBlogName: post.PreferredBlogName,
		},
		Tags: tagNames(post.Tags),
		Attachments: lo.Map(post.Attachments, func(a Attachment, _ int) AttachmentView {
			return AttachmentView{
				ID:          a.ID,
				FileName:    a.FileName,
				ContentType: a.ContentType,
				ByteSize:    a.ByteSize,
				Position:    a.Position,
				URL:         s.fileURLBase + a.StorageKey,
			}
		}),
	}
}

func (s *postService) toPage(items []*Post, total int64, page Page) *PostPage {
	return &PostPage{
		Items: lo.Map(items, func(p *Post, _ int) PostResponse { return *s.toResponse(p) }),
		Total: total,
		Page:  page.Number,
		Size:  page.Size,
	}
}

func validateCreateRequest(req CreatePostRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" && strings.TrimSpace(req.Content) == "" {
		return NewValidationError("content", "a post needs a title or content")
	}
	if len(title) > maxTitleLength {
		return NewValidationError("title",
			fmt.Sprintf("title must not exceed %d characters", maxTitleLength))
	}
	if len(req.Content) > maxContentLength {
		return NewValidationError("content",
			fmt.Sprintf("content must not exceed %d characters", maxContentLength))
	}
	return nil
}

func applyFieldUpdates(post *Post, req UpdatePostRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) > maxTitleLength {
			return NewValidationError("title",
				fmt.Sprintf("title must not exceed %d characters", maxTitleLength))
		}
		post.Title = title
	}
	if req.Content != nil {
		if len(*req.Content) > maxContentLength {
			return NewValidationError("content",
				fmt.Sprintf("content must not exceed %d characters", maxContentLength))
		}
		post.Content = *req.Content
	}
	if post.Title == "" && strings.TrimSpace(post.Content) == "" {
		return NewValidationError("content", "a post needs a title or content")
	}
	if req.Sensitive != nil {
		post.Sensitive = *req.Sensitive
	}
	if req.Published != nil {
		post.Published = *req.Published
	}
	return nil
}

func applyFilterDefaults(filter *PostFilter) {
	if filter.Category == "" {
		filter.Category = CategoryRoot
	}
	if filter.Published == nil {
		published := true
		filter.Published = &published
	}
	if len(filter.TagNames) > 0 {
		normalized := lo.Map(filter.TagNames, func(name string, _ int) string {
			return tags.Normalize(name)
		})
		filter.TagNames = lo.Reject(normalized, func(name string, _ int) bool {
			return name == ""
		})
	}
}

func normalizePage(page *Page) {
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size <= 0 {
		page.Size = defaultPageSize
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
}

// mergeTags unions extra into current, deduping by tag id.
func mergeTags(current, extra []tags.Tag) []tags.Tag {
	seen := lo.Associate(current, func(t tags.Tag) (int64, bool) { return t.ID, true })
	for _, t := range extra {
		if !seen[t.ID] {
			current = append(current, t)
			seen[t.ID] = true
		}
	}
	return current
}

func tagNames(ts []tags.Tag) []string {
	return lo.Map(ts, func(t tags.Tag, _ int) string { return t.Name })
}
