package post

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/auth"
	"Murmur/internal/core/posts"
)

// mockPostService implements posts.Service for testing
type mockPostService struct {
	createFunc  func(ctx context.Context, principal auth.Principal, req posts.CreatePostRequest) (*posts.PostResponse, error)
	updateFunc  func(ctx context.Context, principal auth.Principal, req posts.UpdatePostRequest) (*posts.PostResponse, error)
	deleteFunc  func(ctx context.Context, principal auth.Principal, id int64) error
	getFunc     func(ctx context.Context, principal auth.Principal, id int64) (*posts.PostResponse, error)
	listFunc    func(ctx context.Context, filter posts.PostFilter, page posts.Page) (*posts.PostPage, error)
	searchFunc  func(ctx context.Context, query string, page posts.Page) (*posts.PostPage, error)
	repliesFunc func(ctx context.Context, parentID int64, page posts.Page) (*posts.PostPage, error)
	feedFunc    func(ctx context.Context, principal auth.Principal, page posts.Page) (*posts.PostPage, error)
}

func (m *mockPostService) CreatePost(ctx context.Context, principal auth.Principal, req posts.CreatePostRequest) (*posts.PostResponse, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, principal, req)
	}
	return &posts.PostResponse{
		ID:        1,
		Title:     req.Title,
		Content:   req.Content,
		Category:  posts.CategoryRoot,
		Published: req.Published,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (m *mockPostService) GetPost(ctx context.Context, principal auth.Principal, id int64) (*posts.PostResponse, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, principal, id)
	}
	return &posts.PostResponse{ID: id}, nil
}

func (m *mockPostService) UpdatePost(ctx context.Context, principal auth.Principal, req posts.UpdatePostRequest) (*posts.PostResponse, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, principal, req)
	}
	return &posts.PostResponse{ID: req.PostID}, nil
}

func (m *mockPostService) DeletePost(ctx context.Context, principal auth.Principal, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, principal, id)
	}
	return nil
}

func (m *mockPostService) ListPosts(ctx context.Context, filter posts.PostFilter, page posts.Page) (*posts.PostPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, page)
	}
	return &posts.PostPage{Items: []posts.PostResponse{}}, nil
}

func (m *mockPostService) ListReplies(ctx context.Context, parentID int64, page posts.Page) (*posts.PostPage, error) {
	if m.repliesFunc != nil {
		return m.repliesFunc(ctx, parentID, page)
	}
	return &posts.PostPage{Items: []posts.PostResponse{}}, nil
}

func (m *mockPostService) SearchPosts(ctx context.Context, query string, page posts.Page) (*posts.PostPage, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, page)
	}
	return &posts.PostPage{Items: []posts.PostResponse{}}, nil
}

func (m *mockPostService) Feed(ctx context.Context, principal auth.Principal, page posts.Page) (*posts.PostPage, error) {
	if m.feedFunc != nil {
		return m.feedFunc(ctx, principal, page)
	}
	return &posts.PostPage{Items: []posts.PostResponse{}}, nil
}

// authedRequest attaches a principal the way the auth middleware would.
func authedRequest(req *http.Request) *http.Request {
	principal := auth.Principal{UserID: 1, BlogID: 7}
	return req.WithContext(middleware.WithPrincipal(req.Context(), principal))
}

func TestCreateHandler_JSON(t *testing.T) {
	var got posts.CreatePostRequest
	mockService := &mockPostService{
		createFunc: func(ctx context.Context, principal auth.Principal, req posts.CreatePostRequest) (*posts.PostResponse, error) {
			got = req
			return &posts.PostResponse{ID: 1, Title: req.Title, Published: req.Published}, nil
		},
	}
	handler := NewCreateHandler(mockService)

	body := `{"title":"First post","content":"Hello","published":true,"tags":["gardening"]}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/posts", bytes.NewBufferString(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if got.Title != "First post" {
		t.Errorf("expected title to reach the service, got %q", got.Title)
	}
	if len(got.TagNames) != 1 || got.TagNames[0] != "gardening" {
		t.Errorf("expected tags to reach the service, got %v", got.TagNames)
	}
	if !got.Published {
		t.Error("expected published flag to reach the service")
	}

	var resp posts.PostResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 {
		t.Errorf("expected post id 1, got %d", resp.ID)
	}
}

func TestCreateHandler_Multipart(t *testing.T) {
	var got posts.CreatePostRequest
	var fileContents []string
	mockService := &mockPostService{
		createFunc: func(ctx context.Context, principal auth.Principal, req posts.CreatePostRequest) (*posts.PostResponse, error) {
			got = req
			// Readers must still be open while the service runs.
			for _, upload := range req.Files {
				data, err := io.ReadAll(upload.Content)
				if err != nil {
					t.Errorf("failed to read upload %s: %v", upload.Filename, err)
				}
				fileContents = append(fileContents, string(data))
			}
			return &posts.PostResponse{ID: 2}, nil
		},
	}
	handler := NewCreateHandler(mockService)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("post", `{"title":"With files","content":"body","published":true}`); err != nil {
		t.Fatalf("failed to write metadata field: %v", err)
	}
	for _, f := range []struct{ name, content string }{
		{"one.png", "png-bytes"},
		{"two.jpg", "jpg-bytes"},
	} {
		fw, err := mw.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		if _, err := fw.Write([]byte(f.content)); err != nil {
			t.Fatalf("failed to write file part: %v", err)
		}
	}
	mw.Close()

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/posts", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if got.Title != "With files" {
		t.Errorf("expected metadata to decode, got title %q", got.Title)
	}
	if len(got.Files) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(got.Files))
	}
	// Upload order must match part order.
	if got.Files[0].Filename != "one.png" || got.Files[1].Filename != "two.jpg" {
		t.Errorf("expected uploads in part order, got %s, %s", got.Files[0].Filename, got.Files[1].Filename)
	}
	if len(fileContents) != 2 || fileContents[0] != "png-bytes" || fileContents[1] != "jpg-bytes" {
		t.Errorf("expected readable upload contents, got %v", fileContents)
	}
}

func TestCreateHandler_MultipartWithoutMetadata(t *testing.T) {
	var got posts.CreatePostRequest
	mockService := &mockPostService{
		createFunc: func(ctx context.Context, principal auth.Principal, req posts.CreatePostRequest) (*posts.PostResponse, error) {
			got = req
			return &posts.PostResponse{ID: 3}, nil
		},
	}
	handler := NewCreateHandler(mockService)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", "solo.png")
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	fw.Write([]byte("data"))
	mw.Close()

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/posts", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if got.Title != "" {
		t.Errorf("expected zeroed metadata, got title %q", got.Title)
	}
	if len(got.Files) != 1 {
		t.Errorf("expected 1 upload, got %d", len(got.Files))
	}
}

func TestCreateHandler_InvalidJSON(t *testing.T) {
	handler := NewCreateHandler(&mockPostService{})

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/posts", bytes.NewBufferString("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCreateHandler_InvalidMetadata(t *testing.T) {
	handler := NewCreateHandler(&mockPostService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("post", "{not json")
	mw.Close()

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/posts", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCreateHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		err            error
		name           string
		expectedError  string
		expectedStatus int
	}{
		{
			name:           "validation error",
			err:            posts.NewValidationError("title", "title is required"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "InvalidRequest",
		},
		{
			name:           "access denied",
			err:            posts.ErrAccessDenied,
			expectedStatus: http.StatusForbidden,
			expectedError:  "AccessDenied",
		},
		{
			name:           "parent not found",
			err:            posts.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedError:  "NotFound",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &mockPostService{
				createFunc: func(ctx context.Context, principal auth.Principal, req posts.CreatePostRequest) (*posts.PostResponse, error) {
					return nil, tc.err
				},
			}
			handler := NewCreateHandler(mockService)

			req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/posts", bytes.NewBufferString(`{"title":"t","content":"c"}`)))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.HandleCreate(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("expected status %d, got %d. Body: %s", tc.expectedStatus, w.Code, w.Body.String())
			}

			var errResp struct {
				Error string `json:"error"`
			}
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error != tc.expectedError {
				t.Errorf("expected error %s, got %s", tc.expectedError, errResp.Error)
			}
		})
	}
}
