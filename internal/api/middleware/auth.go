package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"Murmur/internal/core/auth"
	"Murmur/internal/core/blogs"
)

type contextKey string

const principalKey contextKey = "principal"

// SessionName is the cookie session consulted when no bearer token is
// present.
const SessionName = "murmur_session"

// Session value keys written by the external login flow.
const (
	sessionUserIDKey = "user_id"
	sessionAdminKey  = "admin"
)

// adminClaim is the private JWT claim granting the management override.
const adminClaim = "adm"

// AuthMiddleware resolves the acting principal from a bearer JWT or a
// cookie session. Token issuance and login flows live outside this
// service; the middleware only verifies already-issued credentials and
// attaches the user's active blog.
type AuthMiddleware struct {
	store       sessions.Store
	blogService blogs.Service
	secret      []byte
}

// NewAuthMiddleware creates a new auth middleware. secret is the HS256
// key shared with the token issuer.
func NewAuthMiddleware(secret []byte, store sessions.Store, blogService blogs.Service) *AuthMiddleware {
	return &AuthMiddleware{
		store:       store,
		blogService: blogService,
		secret:      secret,
	}
}

// RequireAuth ensures the request carries a usable credential. Rejected
// or missing credentials get 401; otherwise the principal lands in the
// request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A principal resolved by an upstream OptionalAuth is trusted.
		if !GetPrincipal(r).Anonymous() {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.resolve(r)
		if err != nil {
			slog.Warn("authentication failed",
				slog.String("path", r.URL.Path),
				slog.String("remote", r.RemoteAddr),
				slog.String("error", err.Error()),
			)
			writeAuthError(w, "Invalid or expired credentials")
			return
		}
		if principal.Anonymous() {
			writeAuthError(w, "Authentication required")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuth loads the principal when a valid credential is present
// but lets anonymous requests through. Invalid credentials degrade to
// anonymous rather than failing the request.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetPrincipal(r).Anonymous() {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.resolve(r)
		if err != nil {
			slog.Warn("optional authentication failed",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			next.ServeHTTP(w, r)
			return
		}
		if !principal.Anonymous() {
			r = r.WithContext(WithPrincipal(r.Context(), principal))
		}

		next.ServeHTTP(w, r)
	})
}

// resolve authenticates the request. A missing credential yields the
// anonymous principal with no error; a present but invalid credential
// yields an error.
func (m *AuthMiddleware) resolve(r *http.Request) (auth.Principal, error) {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		return m.verifyBearer(r.Context(), raw)
	}

	return m.sessionPrincipal(r)
}

func (m *AuthMiddleware) verifyBearer(ctx context.Context, raw string) (auth.Principal, error) {
	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("failed to verify token: %w", err)
	}

	userID, err := strconv.ParseInt(token.Subject(), 10, 64)
	if err != nil || userID <= 0 {
		return auth.Principal{}, fmt.Errorf("invalid subject claim %q", token.Subject())
	}

	principal := auth.Principal{UserID: userID}
	if claim, ok := token.Get(adminClaim); ok {
		if admin, ok := claim.(bool); ok {
			principal.Admin = admin
		}
	}

	return m.withActiveBlog(ctx, principal), nil
}

func (m *AuthMiddleware) sessionPrincipal(r *http.Request) (auth.Principal, error) {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("failed to decode session: %w", err)
	}

	userID, ok := session.Values[sessionUserIDKey].(int64)
	if !ok || userID <= 0 {
		// No session is the normal anonymous case.
		return auth.Principal{}, nil
	}

	principal := auth.Principal{UserID: userID}
	if admin, ok := session.Values[sessionAdminKey].(bool); ok {
		principal.Admin = admin
	}

	return m.withActiveBlog(r.Context(), principal), nil
}

// withActiveBlog attaches the user's acting blog. A user with no blog
// yet stays blog-less and can still register one.
func (m *AuthMiddleware) withActiveBlog(ctx context.Context, principal auth.Principal) auth.Principal {
	blog, err := m.blogService.ActiveBlog(ctx, principal.UserID)
	if err != nil {
		if !blogs.IsNotFound(err) {
			slog.Warn("failed to resolve active blog",
				slog.Int64("user_id", principal.UserID),
				slog.String("error", err.Error()),
			)
		}
		return principal
	}

	principal.BlogID = blog.ID
	return principal
}

// WithPrincipal returns a context carrying the principal. Exported so
// handler tests can authenticate requests without real credentials.
func WithPrincipal(ctx context.Context, principal auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipal extracts the principal from the request context. The
// zero value means anonymous.
func GetPrincipal(r *http.Request) auth.Principal {
	principal, _ := r.Context().Value(principalKey).(auth.Principal)
	return principal
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	resp := map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("failed to write auth error response", slog.String("error", err.Error()))
	}
}
