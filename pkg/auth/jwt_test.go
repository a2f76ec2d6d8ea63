package auth_test

import (
	"testing"

	"github.com/shashiranjanraj/dukaan/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken("64f0c2ab12de34fa56bc78d9", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "64f0c2ab12de34fa56bc78d9" {
		t.Errorf("user id = %q", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("role = %q", claims.Role)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Error("expected expiry and issued-at to be set")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := auth.GenerateToken("user1", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	tampered := token[:len(token)-4] + "AAAA"
	if _, err := auth.ValidateToken(tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	t.Setenv("TOKEN_TTL", "-1h")
	token, err := auth.GenerateToken("user1", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := auth.ValidateToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain text")
	}
	if !auth.CheckPassword(hash, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}
