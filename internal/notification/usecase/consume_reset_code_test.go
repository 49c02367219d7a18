package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/mail"
	"github.com/kodapp/resetgate/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  reset:
    code_ttl_minutes: 5
  notification:
    reset_code_subject: "Your password reset code"
`

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)

	return nil
}

type fakeIdempotency struct {
	mu   sync.Mutex
	held map[string]struct{}
	err  error
}

func (f *fakeIdempotency) Acquire(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return false, f.err
	}
	if f.held == nil {
		f.held = make(map[string]struct{})
	}
	if _, ok := f.held[key]; ok {
		return false, nil
	}
	f.held[key] = struct{}{}

	return true, nil
}

func (f *fakeIdempotency) Release(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)

	return nil
}

func newUsecase(t *testing.T, mailer *fakeMailer, idemp *fakeIdempotency) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("init config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("init validator: %v", err)
	}

	return New(Dependency{
		RepoEmail:   mailer,
		Idempotency: idemp,
		Validator:   v10,
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
	})
}

func TestConsumeResetCode(t *testing.T) {
	// Arrange
	mailer := &fakeMailer{}
	uc := newUsecase(t, mailer, &fakeIdempotency{})
	in := ConsumeResetCodeInput{EventID: 42, Email: "user@example.com", Code: "123456"}

	// Act
	err := uc.ConsumeResetCode(context.Background(), in)

	// Assert
	if err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mailer.sent))
	}

	msg := mailer.sent[0]
	if msg.To[0] != "user@example.com" {
		t.Fatalf("unexpected recipient: %v", msg.To)
	}
	if msg.Subject != "Your password reset code" {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "123456") || !strings.Contains(msg.TextBody, "123456") {
		t.Fatal("email body must contain the code")
	}
	if !strings.Contains(msg.HTMLBody, "5 minutes") {
		t.Fatal("email body must mention the code lifetime")
	}
}

func TestConsumeResetCodeDuplicateEvent(t *testing.T) {
	// Arrange
	mailer := &fakeMailer{}
	uc := newUsecase(t, mailer, &fakeIdempotency{})
	in := ConsumeResetCodeInput{EventID: 42, Email: "user@example.com", Code: "123456"}
	if err := uc.ConsumeResetCode(context.Background(), in); err != nil {
		t.Fatalf("first consume failed: %v", err)
	}

	// Act
	err := uc.ConsumeResetCode(context.Background(), in)

	// Assert
	if err != nil {
		t.Fatalf("duplicate consume must be dropped silently: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("duplicate event must not send again, got %d emails", len(mailer.sent))
	}
}

func TestConsumeResetCodeSendFailureReleasesGuard(t *testing.T) {
	// Arrange
	mailer := &fakeMailer{err: errors.New("smtp down")}
	idemp := &fakeIdempotency{}
	uc := newUsecase(t, mailer, idemp)
	in := ConsumeResetCodeInput{EventID: 42, Email: "user@example.com", Code: "123456"}

	// Act
	err := uc.ConsumeResetCode(context.Background(), in)

	// Assert
	if err == nil {
		t.Fatal("expected send failure to surface for broker redelivery")
	}
	if len(idemp.held) != 0 {
		t.Fatal("guard must be released so a redelivery can retry")
	}

	// A redelivery after recovery goes through.
	mailer.err = nil
	if err := uc.ConsumeResetCode(context.Background(), in); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected exactly one email after retry, got %d", len(mailer.sent))
	}
}

func TestConsumeResetCodeInvalidPayload(t *testing.T) {
	// Arrange
	mailer := &fakeMailer{}
	uc := newUsecase(t, mailer, &fakeIdempotency{})

	// Act: a malformed event is dropped, not retried forever.
	err := uc.ConsumeResetCode(context.Background(), ConsumeResetCodeInput{
		EventID: 0,
		Email:   "not-an-email",
		Code:    "abc",
	})

	// Assert
	if err != nil {
		t.Fatalf("invalid payload must be dropped without error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("no email must be sent for an invalid payload")
	}
}
