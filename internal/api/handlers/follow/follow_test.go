package follow

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"Murmur/internal/api/middleware"
	"Murmur/internal/core/auth"
	"Murmur/internal/core/follows"
)

// mockFollowService implements follows.Service for testing
type mockFollowService struct {
	followFunc    func(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) (*follows.Follow, error)
	unfollowFunc  func(ctx context.Context, principal auth.Principal, followeeBlogName string) error
	setNotifyFunc func(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) error
	setMutedFunc  func(ctx context.Context, principal auth.Principal, followeeBlogName string, muted bool) error
}

func (m *mockFollowService) Follow(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) (*follows.Follow, error) {
	if m.followFunc != nil {
		return m.followFunc(ctx, principal, followeeBlogName, notify)
	}
	return &follows.Follow{FollowerBlogID: principal.BlogID, FolloweeBlogID: 2, Notify: notify}, nil
}

func (m *mockFollowService) Unfollow(ctx context.Context, principal auth.Principal, followeeBlogName string) error {
	if m.unfollowFunc != nil {
		return m.unfollowFunc(ctx, principal, followeeBlogName)
	}
	return nil
}

func (m *mockFollowService) SetNotify(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) error {
	if m.setNotifyFunc != nil {
		return m.setNotifyFunc(ctx, principal, followeeBlogName, notify)
	}
	return nil
}

func (m *mockFollowService) SetMuted(ctx context.Context, principal auth.Principal, followeeBlogName string, muted bool) error {
	if m.setMutedFunc != nil {
		return m.setMutedFunc(ctx, principal, followeeBlogName, muted)
	}
	return nil
}

func (m *mockFollowService) ListFollowing(ctx context.Context, blogID int64, limit, offset int) ([]*follows.FollowView, error) {
	return []*follows.FollowView{}, nil
}

func (m *mockFollowService) ListFollowers(ctx context.Context, blogID int64, limit, offset int) ([]*follows.FollowView, error) {
	return []*follows.FollowView{}, nil
}

func authedRequest(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), auth.Principal{UserID: 1, BlogID: 7}))
}

func withBlogName(req *http.Request, name string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("blogName", name)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleFollow_Success(t *testing.T) {
	var gotName string
	var gotNotify bool
	mockService := &mockFollowService{
		followFunc: func(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) (*follows.Follow, error) {
			gotName = followeeBlogName
			gotNotify = notify
			return &follows.Follow{FollowerBlogID: principal.BlogID, FolloweeBlogID: 2, Notify: notify}, nil
		},
	}
	handler := NewFollowHandler(mockService)

	body := `{"blogName":"miso","notify":true}`
	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/follows", bytes.NewBufferString(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.HandleFollow(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}
	if gotName != "miso" || !gotNotify {
		t.Errorf("expected follow of miso with notify, got %q notify=%v", gotName, gotNotify)
	}
}

func TestHandleFollow_MissingBlogName(t *testing.T) {
	handler := NewFollowHandler(&mockFollowService{})

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/follows", bytes.NewBufferString(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.HandleFollow(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleFollow_AlreadyFollowing(t *testing.T) {
	mockService := &mockFollowService{
		followFunc: func(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) (*follows.Follow, error) {
			return nil, follows.ErrAlreadyFollowing
		},
	}
	handler := NewFollowHandler(mockService)

	req := authedRequest(httptest.NewRequest(http.MethodPost, "/v1/follows", bytes.NewBufferString(`{"blogName":"miso"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.HandleFollow(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d. Body: %s", w.Code, w.Body.String())
	}
}

func TestHandleUnfollow_Success(t *testing.T) {
	var gotName string
	mockService := &mockFollowService{
		unfollowFunc: func(ctx context.Context, principal auth.Principal, followeeBlogName string) error {
			gotName = followeeBlogName
			return nil
		},
	}
	handler := NewFollowHandler(mockService)

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/v1/follows/miso", nil))
	req = withBlogName(req, "miso")
	w := httptest.NewRecorder()

	handler.HandleUnfollow(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d. Body: %s", w.Code, w.Body.String())
	}
	if gotName != "miso" {
		t.Errorf("expected unfollow of miso, got %q", gotName)
	}
}

func TestHandleUnfollow_NotFollowing(t *testing.T) {
	mockService := &mockFollowService{
		unfollowFunc: func(ctx context.Context, principal auth.Principal, followeeBlogName string) error {
			return follows.ErrFollowNotFound
		},
	}
	handler := NewFollowHandler(mockService)

	req := authedRequest(httptest.NewRequest(http.MethodDelete, "/v1/follows/miso", nil))
	req = withBlogName(req, "miso")
	w := httptest.NewRecorder()

	handler.HandleUnfollow(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleUpdate_TogglesFlags(t *testing.T) {
	var notifyCalled, mutedCalled bool
	mockService := &mockFollowService{
		setNotifyFunc: func(ctx context.Context, principal auth.Principal, followeeBlogName string, notify bool) error {
			notifyCalled = true
			if notify {
				t.Error("expected notify=false")
			}
			return nil
		},
		setMutedFunc: func(ctx context.Context, principal auth.Principal, followeeBlogName string, muted bool) error {
			mutedCalled = true
			if !muted {
				t.Error("expected muted=true")
			}
			return nil
		},
	}
	handler := NewFollowHandler(mockService)

	body := `{"notify":false,"muted":true}`
	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/v1/follows/miso", bytes.NewBufferString(body)))
	req.Header.Set("Content-Type", "application/json")
	req = withBlogName(req, "miso")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d. Body: %s", w.Code, w.Body.String())
	}
	if !notifyCalled || !mutedCalled {
		t.Errorf("expected both flags to update, notify=%v muted=%v", notifyCalled, mutedCalled)
	}
}

func TestHandleUpdate_NothingToUpdate(t *testing.T) {
	handler := NewFollowHandler(&mockFollowService{})

	req := authedRequest(httptest.NewRequest(http.MethodPatch, "/v1/follows/miso", bytes.NewBufferString(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req = withBlogName(req, "miso")
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
