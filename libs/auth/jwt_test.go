package auth

import (
	"errors"
	"testing"
	"time"
)

func TestHS256RoundTrip(t *testing.T) {
	claims := NewClaims(7, "admin@clinic.local", "admin", time.Now(), time.Hour)
	secret := "test-secret"

	token, err := SignHS256(claims, secret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	parsed, err := ParseAndVerifyHS256(token, secret)
	if err != nil {
		t.Fatalf("ParseAndVerifyHS256 failed: %v", err)
	}
	if parsed.Subject != "7" || parsed.Email != claims.Email || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v", parsed)
	}
	if _, err := ParseAndVerifyHS256(token, "wrong-secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	claims := NewClaims(1, "a@b.co", "admin", time.Now().Add(-2*time.Hour), time.Hour)
	token, err := SignHS256(claims, "s")
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	if _, err := ParseAndVerifyHS256(token, "s"); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}

	unverified, err := ParseJWTNoVerify(token)
	if err != nil {
		t.Fatalf("ParseJWTNoVerify failed: %v", err)
	}
	if !unverified.Expired(time.Now()) {
		t.Fatal("expected claims to be expired")
	}
}

func TestParseJWTNoVerifyRejectsOpaqueTokens(t *testing.T) {
	if _, err := ParseJWTNoVerify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	var c *Claims
	if c.Expired(time.Now()) {
		t.Fatal("nil claims never expire")
	}
}
