package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/dukaan/pkg/auth"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
)

func protected(t *testing.T, wantUserID, wantRole string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.IdentityFromCtx(r.Context())
		if !ok {
			t.Error("identity missing from context")
		}
		if id.UserID != wantUserID || id.Role != wantRole {
			t.Errorf("identity = %+v, want %s/%s", id, wantUserID, wantRole)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "garbage"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	token, err := auth.GenerateToken("user42", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	handler := middleware.Auth(protected(t, "user42", "customer"))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	token, err := auth.GenerateToken("user7", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	handler := middleware.Auth(protected(t, "user7", "admin"))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/all", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// The cookie wins when both carriers are present.
func TestCookiePreferredOverHeader(t *testing.T) {
	cookieToken, err := auth.GenerateToken("cookie-user", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	headerToken, err := auth.GenerateToken("header-user", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	handler := middleware.Auth(protected(t, "cookie-user", "customer"))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
