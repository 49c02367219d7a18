package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/reset/entity"
)

func issueFor(t *testing.T, f *fixture, email string) {
	t.Helper()

	if err := f.uc.IssueCode(context.Background(), IssueCodeInput{Email: email}); err != nil {
		t.Fatalf("issue code failed: %v", err)
	}
}

func TestVerifyCodeAndReset(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	})

	// Assert
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if got := f.idp.passwords["uid-a"]; got != "new-secret-1" {
		t.Fatalf("expected credential update, got %q", got)
	}
	if rec := f.store.records["user@example.com"]; !rec.Used {
		t.Fatal("expected record marked used after a successful reset")
	}
}

func TestVerifyCodeAndResetNoRecord(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	})

	// Assert
	assertCode(t, err, goerror.CodeNotFound)
}

func TestVerifyCodeAndResetWrongCode(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "999999",
		NewPassword: "new-secret-1",
	})

	// Assert
	assertCode(t, err, goerror.CodeInvalidInput)
	if got := f.store.records["user@example.com"].Attempts; got != 1 {
		t.Fatalf("expected 1 registered attempt, got %d", got)
	}
	if len(f.idp.passwords) != 0 {
		t.Fatal("credential must not change on a mismatch")
	}
}

func TestVerifyCodeAndResetLockout(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")
	wrong := VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "999999",
		NewPassword: "new-secret-1",
	}

	// Act / Assert: four mismatches are still retryable.
	for i := range 4 {
		err := f.uc.VerifyCodeAndReset(context.Background(), wrong)
		assertCode(t, err, goerror.CodeInvalidInput)
		if got := f.store.records["user@example.com"].Attempts; got != int64(i+1) {
			t.Fatalf("expected %d attempts, got %d", i+1, got)
		}
	}

	// The fifth mismatch locks the principal out and burns the record.
	err := f.uc.VerifyCodeAndReset(context.Background(), wrong)
	assertCode(t, err, goerror.CodePreconditionFailed)
	if _, ok := f.store.records["user@example.com"]; ok {
		t.Fatal("locked out record must be deleted")
	}

	// Even the correct code is rejected after lockout.
	err = f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	})
	assertCode(t, err, goerror.CodeNotFound)
}

func TestVerifyCodeAndResetExpired(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")
	f.clock.Advance(5*time.Minute + time.Second)

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	})

	// Assert
	assertCode(t, err, goerror.CodeTimeout)
}

func TestVerifyCodeAndResetUsedCode(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")
	in := VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	}
	if err := f.uc.VerifyCodeAndReset(context.Background(), in); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), in)

	// Assert
	assertCode(t, err, goerror.CodePreconditionFailed)
}

func TestVerifyCodeAndResetOldCodeAfterReissue(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com") // code 123456
	issueFor(t, f, "user@example.com") // code 654321 replaces it

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	})

	// Assert
	assertCode(t, err, goerror.CodeInvalidInput)

	err = f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "654321",
		NewPassword: "new-secret-1",
	})
	if err != nil {
		t.Fatalf("latest code must verify: %v", err)
	}
}

func TestVerifyCodeAndResetWeakPassword(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "short",
	})

	// Assert
	assertCode(t, err, goerror.CodeInvalidInput)
	if len(f.idp.passwords) != 0 {
		t.Fatal("credential must not change on invalid input")
	}
}

func TestVerifyCodeAndResetUpdateFailureKeepsCodeLive(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")
	f.idp.updateErr = errors.New("provider down")

	// Act
	err := f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	})

	// Assert
	assertCode(t, err, goerror.CodeInternal)
	if rec := f.store.records["user@example.com"]; rec.Used {
		t.Fatal("code must stay retryable when the credential update fails")
	}

	// The same code succeeds once the provider recovers.
	f.idp.updateErr = nil
	err = f.uc.VerifyCodeAndReset(context.Background(), VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "123456",
		NewPassword: "new-secret-1",
	})
	if err != nil {
		t.Fatalf("retry after provider recovery failed: %v", err)
	}
}

func TestVerifyCodeAndResetConcurrentMismatches(t *testing.T) {
	// Arrange
	f := newFixture(t, "user@example.com")
	issueFor(t, f, "user@example.com")
	wrong := VerifyCodeAndResetInput{
		Email:       "user@example.com",
		Code:        "999999",
		NewPassword: "new-secret-1",
	}

	// Act
	var wg sync.WaitGroup
	for range int(entity.MaxAttempts) * 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			//nolint:errcheck // every call is expected to fail here
			f.uc.VerifyCodeAndReset(context.Background(), wrong)
		}()
	}
	wg.Wait()

	// Assert: concurrent mismatches never leave a guessable record behind.
	if _, ok := f.store.records["user@example.com"]; ok {
		t.Fatal("record must be deleted once the attempt budget is spent")
	}
}
