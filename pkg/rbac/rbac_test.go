package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/rbac"
)

func requestWithRole(t *testing.T, role string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("user1", role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})
	return req
}

func gate(roles ...string) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Auth(rbac.HasRole(roles...)(ok))
}

func TestAllowsMatchingRole(t *testing.T) {
	rec := httptest.NewRecorder()
	gate("admin").ServeHTTP(rec, requestWithRole(t, "admin"))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestDeniesOtherRole(t *testing.T) {
	rec := httptest.NewRecorder()
	gate("admin").ServeHTTP(rec, requestWithRole(t, "customer"))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestDeniesEmptyRole(t *testing.T) {
	rec := httptest.NewRecorder()
	gate("admin").ServeHTTP(rec, requestWithRole(t, ""))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

// Auth runs first, so an unauthenticated request is a 401, not a 403.
func TestUnauthenticatedIsUnauthorized(t *testing.T) {
	rec := httptest.NewRecorder()
	gate("admin").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
