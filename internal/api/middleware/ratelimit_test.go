package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Murmur/internal/core/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestRateLimiter_AllowsWithinBudget tests that requests under the limit
// pass through
func TestRateLimiter_AllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	handler := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, w.Code)
		}
	}
}

// TestRateLimiter_RejectsOverBudget tests that the request over the
// limit gets 429 with a Retry-After hint
func TestRateLimiter_RejectsOverBudget(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	handler := rl.Middleware(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After header")
	}
}

// TestRateLimiter_SeparateUsersSeparateBudgets tests that authenticated
// users do not share a window even from the same address
func TestRateLimiter_SeparateUsersSeparateBudgets(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Middleware(okHandler())

	first := httptest.NewRequest("GET", "/test", nil)
	first = first.WithContext(WithPrincipal(first.Context(), auth.Principal{UserID: 1}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("user 1: expected status 200, got %d", w.Code)
	}

	// Same remote address, different user: fresh budget.
	second := httptest.NewRequest("GET", "/test", nil)
	second = second.WithContext(WithPrincipal(second.Context(), auth.Principal{UserID: 2}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Errorf("user 2: expected status 200, got %d", w.Code)
	}

	// User 1 again: budget exhausted.
	third := httptest.NewRequest("GET", "/test", nil)
	third = third.WithContext(WithPrincipal(third.Context(), auth.Principal{UserID: 1}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, third)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("user 1 second request: expected status 429, got %d", w.Code)
	}
}

// TestRateLimiter_WindowResets tests that the budget refills after the
// window elapses
func TestRateLimiter_WindowResets(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	handler := rl.Middleware(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/test", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", w.Code)
	}

	time.Sleep(30 * time.Millisecond)

	req = httptest.NewRequest("GET", "/test", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 after window reset, got %d", w.Code)
	}
}

// TestClientKey tests key derivation for the different request shapes
func TestClientKey(t *testing.T) {
	authed := httptest.NewRequest("GET", "/test", nil)
	authed = authed.WithContext(WithPrincipal(authed.Context(), auth.Principal{UserID: 42}))
	if key := clientKey(authed); key != "user:42" {
		t.Errorf("expected user:42, got %s", key)
	}

	forwarded := httptest.NewRequest("GET", "/test", nil)
	forwarded.Header.Set("X-Forwarded-For", "203.0.113.9")
	if key := clientKey(forwarded); key != "ip:203.0.113.9" {
		t.Errorf("expected ip:203.0.113.9, got %s", key)
	}

	plain := httptest.NewRequest("GET", "/test", nil)
	if key := clientKey(plain); key != "ip:"+plain.RemoteAddr {
		t.Errorf("expected ip:%s, got %s", plain.RemoteAddr, key)
	}
}
