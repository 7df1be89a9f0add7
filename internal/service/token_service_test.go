package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"observer-finance/internal/domain"
)

func TestTokenServiceIssueParse(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	account := domain.Account{ID: 42, Email: "a@b.com"}

	token, err := svc.Issue(account)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Email != "a@b.com" {
		t.Fatalf("expected email claim, got %q", claims.Email)
	}
	id, err := claims.AccountID()
	if err != nil {
		t.Fatalf("account id failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected account id 42, got %d", id)
	}
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := &TokenService{
		secret: []byte("test-secret"),
		ttl:    -time.Minute,
		issuer: "observer-finance",
	}
	token, err := svc.Issue(domain.Account{ID: 1, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue(domain.Account{ID: 1, Email: "a@b.com"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenServiceRejectsEmptySecret(t *testing.T) {
	svc := NewTokenService("", time.Hour)
	if _, err := svc.Issue(domain.Account{ID: 1, Email: "a@b.com"}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	for _, tokenString := range []string{"", "   ", "not.a.jwt", strings.Repeat("x", 200)} {
		if _, err := svc.Parse(tokenString); err == nil {
			t.Fatalf("expected error for %q", tokenString)
		}
	}
}

func TestClaimsAccountIDRejectsNonNumericSubject(t *testing.T) {
	claims := Claims{}
	claims.Subject = "abc"
	if _, err := claims.AccountID(); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	claims.Subject = "0"
	if _, err := claims.AccountID(); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for non-positive id, got %v", err)
	}
}
