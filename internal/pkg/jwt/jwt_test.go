package jwt

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type fixedUUID struct{ v string }

func (f fixedUUID) Generate() string { return f.v }

func testConfig(now time.Time) Config {
	return Config{
		Secret:     bytes.Repeat([]byte("s"), 64),
		Issuer:     "wishbox",
		Audiences:  []string{"wishbox-api"},
		TTLMinutes: 15 * time.Minute,
		Clock:      fixedClock{now: now},
		UUID:       fixedUUID{v: "token-id"},
	}
}

func TestNewHS512RejectsShortSecret(t *testing.T) {
	cfg := testConfig(time.Now())
	cfg.Secret = []byte("too-short")

	if _, err := NewHS512(cfg); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	j, err := NewHS512(testConfig(time.Now()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := j.Generate(42, "jane@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.UserEmail != "jane@example.com" {
		t.Fatalf("unexpected email %s", claims.UserEmail)
	}
	if claims.Issuer != "wishbox" {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
	if claims.ID != "token-id" {
		t.Fatalf("unexpected token id %s", claims.ID)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	j, err := NewHS512(testConfig(time.Now().Add(-time.Hour)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := j.Generate(42, "jane@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := j.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	j, err := NewHS512(testConfig(time.Now()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := j.Generate(42, "jane@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := j.Verify(tampered); err == nil {
		t.Fatal("expected verification to fail for tampered token")
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	now := time.Now()

	issuerSide, err := NewHS512(testConfig(now))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	otherCfg := testConfig(now)
	otherCfg.Secret = bytes.Repeat([]byte("x"), 64)
	verifierSide, err := NewHS512(otherCfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := issuerSide.Generate(42, "jane@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifierSide.Verify(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestAuthContext(t *testing.T) {
	ctx := SetAuth(t.Context(), Claims{UserID: 7, UserEmail: "jane@example.com"})

	clm := GetAuth(ctx)
	if clm == nil {
		t.Fatal("expected claims in context")
	}
	if clm.UserID != 7 {
		t.Fatalf("unexpected user id %d", clm.UserID)
	}

	if GetAuth(t.Context()) != nil {
		t.Fatal("expected nil claims for fresh context")
	}
}
