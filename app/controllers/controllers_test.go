package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

func TestRegisterRequestPasswordFloor(t *testing.T) {
	req := registerRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret", // six characters, the minimum
	}
	if errs := validate.Struct(req); validate.HasErrors(errs) {
		t.Errorf("six-character password must be accepted, got %v", errs)
	}

	req.Password = "short"
	errs := validate.Struct(req)
	if _, ok := errs["password"]; !ok {
		t.Errorf("five-character password must be rejected, got %v", errs)
	}
}

func TestPlaceOrderRequestAddressRules(t *testing.T) {
	errs := validate.Struct(placeOrderRequest{})
	for _, field := range []string{
		"shipping_address.name",
		"shipping_address.line1",
		"shipping_address.city",
		"shipping_address.state",
		"shipping_address.postal_code",
		"shipping_address.country",
	} {
		if _, ok := errs[field]; !ok {
			t.Errorf("empty shipping address must fail %q, got %v", field, errs)
		}
	}

	full := placeOrderRequest{ShippingAddress: models.Address{
		Name:       "Asha",
		Line1:      "12 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
		Country:    "India",
	}}
	if errs := validate.Struct(full); validate.HasErrors(errs) {
		t.Errorf("complete address must pass, got %v", errs)
	}
}

func TestLogoutMessages(t *testing.T) {
	ctl := NewAuthController(nil)

	// No cookie: nothing to clear.
	rec := httptest.NewRecorder()
	ctl.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	if !strings.Contains(rec.Body.String(), "Already logged out") {
		t.Errorf("expected already-logged-out message, got %s", rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be written when none was sent")
	}

	// With the token cookie: clear it.
	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.AddCookie(&http.Cookie{Name: middleware.CookieName, Value: "tok"})
	ctl.Logout(rec, r)
	if !strings.Contains(rec.Body.String(), "logged out") {
		t.Errorf("expected logged-out message, got %s", rec.Body.String())
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("token cookie was not cleared")
	}
}
