package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// CookieName is the http-only cookie carrying the auth token.
const CookieName = "token"

type identityKey struct{}

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID string
	Role   string
}

// Auth verifies the token from the `token` cookie (preferred) or the
// Authorization: Bearer header, and attaches the caller's identity to the
// request context. Missing token and invalid/expired token both end the
// request with 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			response.Unauthorized(w, "Unauthorized: no token provided")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := withIdentity(r.Context(), Identity{UserID: claims.UserID, Role: claims.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the authenticated identity, if any.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// UserIDFromCtx returns the authenticated user's ID.
func UserIDFromCtx(r *http.Request) (string, bool) {
	id, ok := IdentityFromCtx(r.Context())
	return id.UserID, ok
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := IdentityFromCtx(r.Context())
	if !ok || id.Role == "" {
		return "", false
	}
	return id.Role, true
}
