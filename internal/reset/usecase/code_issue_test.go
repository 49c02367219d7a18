package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kodapp/resetgate/internal/pkg/goerror"
)

func TestIssueCode(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")

	// Act
	err := f.uc.IssueCode(context.Background(), IssueCodeInput{Email: "user@example.com"})

	// Assert
	if err != nil {
		t.Fatalf("issue code failed: %v", err)
	}

	rec, ok := f.store.records["user@example.com"]
	if !ok {
		t.Fatal("expected a stored reset code record")
	}
	if rec.Used || rec.Attempts != 0 {
		t.Fatalf("fresh record must be unused with zero attempts, got %+v", rec)
	}
	if want := f.clock.Now().Add(5 * time.Minute); !rec.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, rec.ExpiresAt)
	}
	if rec.CodeHash == "123456" {
		t.Fatal("plaintext code must never be stored")
	}

	event := f.pub.last(t)
	if event.Email != "user@example.com" || event.Code != "123456" {
		t.Fatalf("unexpected published event: %+v", event)
	}
}

func TestIssueCodeNormalizesEmail(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")

	// Act
	err := f.uc.IssueCode(context.Background(), IssueCodeInput{Email: "  User@Example.COM "})

	// Assert
	if err != nil {
		t.Fatalf("issue code failed: %v", err)
	}
	if _, ok := f.store.records["user@example.com"]; !ok {
		t.Fatal("expected record stored under the normalized email")
	}
}

func TestIssueCodeInvalidEmail(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	err := f.uc.IssueCode(context.Background(), IssueCodeInput{Email: "not-an-email"})

	// Assert
	assertCode(t, err, goerror.CodeInvalidInput)
}

func TestIssueCodeUnknownAccount(t *testing.T) {
	// Arrange
	f := newFixture(t) // no accounts

	// Act
	err := f.uc.IssueCode(context.Background(), IssueCodeInput{Email: "ghost@example.com"})

	// Assert
	assertCode(t, err, goerror.CodeNotFound)
	if len(f.store.records) != 0 {
		t.Fatal("no record must be stored for an unknown account")
	}
	if len(f.pub.events) != 0 {
		t.Fatal("no event must be published for an unknown account")
	}
}

func TestIssueCodeReplacesPreviousCode(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	in := IssueCodeInput{Email: "user@example.com"}

	// Act
	if err := f.uc.IssueCode(context.Background(), in); err != nil {
		t.Fatalf("first issue failed: %v", err)
	}
	first := f.store.records["user@example.com"]
	if err := f.uc.IssueCode(context.Background(), in); err != nil {
		t.Fatalf("second issue failed: %v", err)
	}
	second := f.store.records["user@example.com"]

	// Assert
	if len(f.store.records) != 1 {
		t.Fatalf("expected a single live record, got %d", len(f.store.records))
	}
	if first.CodeHash == second.CodeHash {
		t.Fatal("reissue must replace the previous code")
	}
}

func TestIssueCodeThrottled(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	in := IssueCodeInput{Email: "user@example.com"}
	for range 3 {
		if err := f.uc.IssueCode(context.Background(), in); err != nil {
			t.Fatalf("issue within budget failed: %v", err)
		}
	}

	// Act
	err := f.uc.IssueCode(context.Background(), in)

	// Assert
	assertCode(t, err, goerror.CodeTooManyRequest)

	var gerr *goerror.Error
	errors.As(err, &gerr)
	if gerr.Fields()["retry_after"] == "" {
		t.Fatal("throttled response must carry a retry_after hint")
	}
}

func TestIssueCodeWindowSlides(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	in := IssueCodeInput{Email: "user@example.com"}
	for range 3 {
		if err := f.uc.IssueCode(context.Background(), in); err != nil {
			t.Fatalf("issue within budget failed: %v", err)
		}
	}
	assertCode(t, f.uc.IssueCode(context.Background(), in), goerror.CodeTooManyRequest)

	// Act
	f.clock.Advance(time.Hour + time.Second)
	err := f.uc.IssueCode(context.Background(), in)

	// Assert
	if err != nil {
		t.Fatalf("issue after window elapsed failed: %v", err)
	}
}

func TestIssueCodePublishFailureStillSucceeds(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	f.pub.err = errors.New("broker down")

	// Act
	err := f.uc.IssueCode(context.Background(), IssueCodeInput{Email: "user@example.com"})

	// Assert
	if err != nil {
		t.Fatalf("issue must succeed even when publish fails: %v", err)
	}
	if _, ok := f.store.records["user@example.com"]; !ok {
		t.Fatal("record must stay valid when publish fails")
	}
}

func TestIssueCodeStoreFailure(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	f.store.saveErr = errors.New("redis down")

	// Act
	err := f.uc.IssueCode(context.Background(), IssueCodeInput{Email: "user@example.com"})

	// Assert
	assertCode(t, err, goerror.CodeInternal)
}
