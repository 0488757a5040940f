package post

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/core/auth"
	"Murmur/internal/core/posts"
)

// withURLParam injects a chi route parameter the way the router would.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateHandler_JSON(t *testing.T) {
	var got posts.UpdatePostRequest
	mockService := &mockPostService{
		updateFunc: func(ctx context.Context, principal auth.Principal, req posts.UpdatePostRequest) (*posts.PostResponse, error) {
			got = req
			return &posts.PostResponse{ID: req.PostID}, nil
		},
	}
	handler := NewUpdateHandler(mockService)

	body := `{"title":"Renamed","keepAttachmentIds":["a1"],"attachmentOrder":["a1"]}`
	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/v1/posts/42", bytes.NewBufferString(body)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "postID", "42")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	if got.PostID != 42 {
		t.Errorf("expected post id 42 from the URL, got %d", got.PostID)
	}
	if got.Title == nil || *got.Title != "Renamed" {
		t.Errorf("expected title pointer to reach the service, got %v", got.Title)
	}
	if len(got.KeepAttachmentIDs) != 1 || got.KeepAttachmentIDs[0] != "a1" {
		t.Errorf("expected keep list to reach the service, got %v", got.KeepAttachmentIDs)
	}
}

func TestUpdateHandler_InvalidPostID(t *testing.T) {
	handler := NewUpdateHandler(&mockPostService{})

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/v1/posts/nope", bytes.NewBufferString(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withURLParam(req, "postID", "nope")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestUpdateHandler_MultipartPositions(t *testing.T) {
	var got posts.UpdatePostRequest
	mockService := &mockPostService{
		updateFunc: func(ctx context.Context, principal auth.Principal, req posts.UpdatePostRequest) (*posts.PostResponse, error) {
			got = req
			return &posts.PostResponse{ID: req.PostID}, nil
		},
	}
	handler := NewUpdateHandler(mockService)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("post", `{"keepAttachmentIds":["keep-1"]}`)
	mw.WriteField("filePositions", "[0,2]")
	for _, name := range []string{"new-a.png", "new-b.png"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("failed to create file part: %v", err)
		}
		fw.Write([]byte("data"))
	}
	mw.Close()

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/v1/posts/42", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withURLParam(req, "postID", "42")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	if len(got.NewFiles) != 2 {
		t.Fatalf("expected 2 new files, got %d", len(got.NewFiles))
	}
	if got.NewFiles[0].Position != 0 || got.NewFiles[1].Position != 2 {
		t.Errorf("expected positions [0 2], got [%d %d]", got.NewFiles[0].Position, got.NewFiles[1].Position)
	}
	if got.NewFiles[0].Upload.Filename != "new-a.png" {
		t.Errorf("expected uploads in part order, got %s first", got.NewFiles[0].Upload.Filename)
	}
}

func TestUpdateHandler_MultipartWithoutPositions(t *testing.T) {
	var got posts.UpdatePostRequest
	mockService := &mockPostService{
		updateFunc: func(ctx context.Context, principal auth.Principal, req posts.UpdatePostRequest) (*posts.PostResponse, error) {
			got = req
			return &posts.PostResponse{ID: req.PostID}, nil
		},
	}
	handler := NewUpdateHandler(mockService)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("files", "tail.png")
	fw.Write([]byte("data"))
	mw.Close()

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/v1/posts/42", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withURLParam(req, "postID", "42")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
	}
	if len(got.NewFiles) != 1 {
		t.Fatalf("expected 1 new file, got %d", len(got.NewFiles))
	}
	// Absent filePositions means append at the end.
	if got.NewFiles[0].Position != appendPosition {
		t.Errorf("expected append position, got %d", got.NewFiles[0].Position)
	}
}

func TestUpdateHandler_PositionCountMismatch(t *testing.T) {
	handler := NewUpdateHandler(&mockPostService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("filePositions", "[1]")
	for _, name := range []string{"a.png", "b.png"} {
		fw, _ := mw.CreateFormFile("files", name)
		fw.Write([]byte("data"))
	}
	mw.Close()

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/v1/posts/42", &buf))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = withURLParam(req, "postID", "42")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestParsePositions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		uploads int
		want    []int
		wantErr bool
	}{
		{name: "absent means append", raw: "", uploads: 2, want: []int{appendPosition, appendPosition}},
		{name: "explicit positions", raw: "[2,0]", uploads: 2, want: []int{2, 0}},
		{name: "count mismatch", raw: "[1]", uploads: 2, wantErr: true},
		{name: "negative position", raw: "[-1,0]", uploads: 2, wantErr: true},
		{name: "not json", raw: "one,two", uploads: 2, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePositions(tc.raw, tc.uploads)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d positions, got %d", len(tc.want), len(got))
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Errorf("position %d: expected %d, got %d", i, tc.want[i], got[i])
				}
			}
		})
	}
}
