package usecase

import (
	"context"
	"time"

	"github.com/kodapp/resetgate/internal/pkg/clock"
	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/hash"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/otpcode"
	"github.com/kodapp/resetgate/internal/pkg/validator"
	"github.com/kodapp/resetgate/internal/reset/entity"
	"go.opentelemetry.io/otel/trace"
)

// ResetCodeIssuedEvent is handed to the messaging repo after a code is stored.
type ResetCodeIssuedEvent struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

type repoStore interface {
	// ThrottleIssue counts and records an issuance for the principal. It
	// returns allowed=false with a retry-after hint when the window budget
	// is spent.
	ThrottleIssue(ctx context.Context, email string) (allowed bool, retryAfter time.Duration, err error)

	// SaveResetCode writes the record with the given TTL, replacing any
	// previous one.
	SaveResetCode(ctx context.Context, email string, rec entity.OtpRecord, ttl time.Duration) error

	// GetResetCode returns goerror.ErrNotFound when no live record exists.
	GetResetCode(ctx context.Context, email string) (*entity.OtpRecord, error)

	// DeleteResetCode removes the record; deleting a missing record is not
	// an error.
	DeleteResetCode(ctx context.Context, email string) error

	// RegisterAttempt atomically increments the attempt counter and returns
	// the new value. The record is deleted in the same step once the counter
	// reaches entity.MaxAttempts. Returns goerror.ErrNotFound when no record
	// exists.
	RegisterAttempt(ctx context.Context, email string) (int64, error)

	// ConsumeResetCode atomically flips used from false to true. It reports
	// false when the record was already consumed and goerror.ErrNotFound
	// when it is gone.
	ConsumeResetCode(ctx context.Context, email string) (bool, error)
}

type repoIdentityProvider interface {
	// Lookup resolves the principal; returns goerror.ErrNotFound for
	// unknown emails.
	Lookup(ctx context.Context, email string) (*entity.Account, error)

	// UpdateCredential replaces the account password.
	UpdateCredential(ctx context.Context, accountID, newPassword string) error
}

type repoMessaging interface {
	PublishResetCodeIssued(ctx context.Context, msg ResetCodeIssuedEvent) error
}

type Usecase struct {
	repoStore     repoStore
	repoIDP       repoIdentityProvider
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	codeGen       otpcode.Generator
	clock         clock.Clocker
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoStore     repoStore
	RepoIDP       repoIdentityProvider
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	CodeGenerator otpcode.Generator
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoIDP:       dep.RepoIDP,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		codeGen:       dep.CodeGenerator,
		clock:         dep.Clock,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("reset.usecase").Start(ctx, name)
}
