package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/dukaan/pkg/validate"
)

type registerInput struct {
	Name     string  `json:"name"     validate:"required,min=2,max=50"`
	Email    string  `json:"email"    validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Role     string  `json:"role"     validate:"required,in=admin,customer"`
	Phone    string  `json:"phone"    validate:"nullable,min=7"`
	Rating   int     `json:"rating"   validate:"required,between=1,5"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
}

func valid() registerInput {
	return registerInput{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
		Role:     "customer",
		Phone:    "", // nullable
		Rating:   4,
		Price:    99.5,
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(valid())
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected errors for zero struct")
	}
	for _, field := range []string{"name", "email", "password", "role", "rating", "price"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for field %q, got %v", field, errs)
		}
	}
	if _, ok := errs["phone"]; ok {
		t.Errorf("nullable phone must not error when empty")
	}
}

func TestEmailRule(t *testing.T) {
	in := valid()
	in.Email = "not-an-email"
	errs := validate.Struct(in)
	if _, ok := errs["email"]; !ok {
		t.Errorf("expected email error, got %v", errs)
	}
}

func TestInRule(t *testing.T) {
	in := valid()
	in.Role = "superuser"
	errs := validate.Struct(in)
	if _, ok := errs["role"]; !ok {
		t.Errorf("expected role error, got %v", errs)
	}
}

func TestBetweenRule(t *testing.T) {
	in := valid()
	in.Rating = 6
	errs := validate.Struct(in)
	if _, ok := errs["rating"]; !ok {
		t.Errorf("expected rating error, got %v", errs)
	}

	in.Rating = 1
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("rating 1 should pass, got %v", errs)
	}
}

func TestGtRule(t *testing.T) {
	in := valid()
	in.Price = 0
	errs := validate.Struct(in)
	if _, ok := errs["price"]; !ok {
		t.Errorf("expected price error, got %v", errs)
	}
}

func TestMinOnPopulatedNullable(t *testing.T) {
	in := valid()
	in.Phone = "123"
	errs := validate.Struct(in)
	if _, ok := errs["phone"]; !ok {
		t.Errorf("expected phone min error, got %v", errs)
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	in := valid()
	in.Name = "x"
	errs := validate.Struct(in)
	if len(errs["name"]) == 0 {
		t.Fatalf("expected single name message, got %v", errs)
	}
}

type shippingAddress struct {
	Name string `json:"name" validate:"required"`
	City string `json:"city" validate:"required"`
}

type checkoutInput struct {
	Address shippingAddress `json:"address" validate:"required"`
	Lines   []checkoutLine  `json:"lines" validate:"required"`
	Note    *noteInput      `json:"note"`
}

type checkoutLine struct {
	SKU string `json:"sku" validate:"required"`
}

type noteInput struct {
	Text string `json:"text" validate:"required,max=10"`
}

func TestNestedStructRules(t *testing.T) {
	in := checkoutInput{Lines: []checkoutLine{{SKU: "soap-40"}}}
	errs := validate.Struct(in)
	for _, field := range []string{"address.name", "address.city"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %q, got %v", field, errs)
		}
	}

	in.Address = shippingAddress{Name: "Asha", City: "Bengaluru"}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestSliceElementRules(t *testing.T) {
	in := checkoutInput{
		Address: shippingAddress{Name: "Asha", City: "Bengaluru"},
		Lines:   []checkoutLine{{SKU: "soap-40"}, {}},
	}
	errs := validate.Struct(in)
	if _, ok := errs["lines.1.sku"]; !ok {
		t.Errorf("expected error for lines.1.sku, got %v", errs)
	}
	if _, ok := errs["lines.0.sku"]; ok {
		t.Errorf("valid line must not error, got %v", errs)
	}
}

func TestNilNestedPointerSkipped(t *testing.T) {
	in := checkoutInput{
		Address: shippingAddress{Name: "Asha", City: "Bengaluru"},
		Lines:   []checkoutLine{{SKU: "soap-40"}},
	}
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("nil nested pointer must be skipped, got %v", errs)
	}

	in.Note = &noteInput{}
	errs := validate.Struct(in)
	if _, ok := errs["note.text"]; !ok {
		t.Errorf("expected error for note.text, got %v", errs)
	}
}
