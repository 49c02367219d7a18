package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type stubUUID struct{}

func (stubUUID) Generate() string { return "00000000-0000-0000-0000-000000000001" }

func newTestJWT(t *testing.T, now time.Time) *Symmetric {
	t.Helper()

	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "resetgate",
		Audiences: []string{"resetgate-web"},
		TTL:       time.Hour,
		Clock:     stubClock{now: now},
		UUID:      stubUUID{},
	})
	if err != nil {
		t.Fatalf("init jwt: %v", err)
	}

	return j
}

func TestNewHS512ShortSecret(t *testing.T) {
	// Act
	_, err := NewHS512(Config{Secret: []byte("too-short")})

	// Assert
	if !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}

func TestGenerateAndVerify(t *testing.T) {
	// Arrange
	j := newTestJWT(t, time.Now())

	// Act
	token, err := j.Generate("mobile-app")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := j.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Client != "mobile-app" {
		t.Fatalf("expected client mobile-app, got %q", claims.Client)
	}
	if claims.Issuer != "resetgate" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	// Arrange: issued two hours ago with a one hour TTL.
	j := newTestJWT(t, time.Now().Add(-2*time.Hour))
	token, err := j.Generate("mobile-app")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// Act
	_, err = j.Verify(token)

	// Assert
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	// Arrange
	j := newTestJWT(t, time.Now())
	token, err := j.Generate("mobile-app")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("x", 64)),
		Issuer:    "resetgate",
		Audiences: []string{"resetgate-web"},
		TTL:       time.Hour,
		Clock:     stubClock{now: time.Now()},
		UUID:      stubUUID{},
	})
	if err != nil {
		t.Fatalf("init jwt: %v", err)
	}

	// Act
	_, err = other.Verify(token)

	// Assert
	if err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	// Arrange
	j := newTestJWT(t, time.Now())

	// Act
	_, err := j.Verify("not.a.token")

	// Assert
	if err == nil {
		t.Fatal("expected verification to fail for a malformed token")
	}
}
