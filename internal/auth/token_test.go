package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", 24*time.Hour)

	tok, err := svc.Issue("abc123")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	sub, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if sub != "abc123" {
		t.Fatalf("expected subject abc123, got %q", sub)
	}
}

func TestIssueSetsExpiry(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTokenService("secret", 24*time.Hour)
	svc.now = func() time.Time { return fixed }

	tok, _ := svc.Issue("u1")
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(24 * time.Hour)) {
		t.Fatalf("expected expiry 24h after issuance, got %v", claims.ExpiresAt.Time)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, _ := svc.Issue("u1")
	if _, err := svc.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, _ := NewTokenService("one", time.Hour).Issue("u1")
	if _, err := NewTokenService("two", time.Hour).Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsMalformedAndUnsigned(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(raw); err != ErrInvalidToken {
			t.Fatalf("%q: expected ErrInvalidToken, got %v", raw, err)
		}
	}

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("expected alg none to be rejected, got %v", err)
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	tok, _ := svc.Issue("")
	if _, err := svc.Verify(tok); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for empty subject, got %v", err)
	}
}
