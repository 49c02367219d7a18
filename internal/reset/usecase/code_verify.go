package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/reset/entity"
)

type VerifyCodeAndResetInput struct {
	Email       string `validate:"required,email,max=100"`
	Code        string `validate:"required,len=6,numeric"`
	NewPassword string `validate:"required,resetpassword"`
}

// VerifyCodeAndReset checks the submitted code against the stored record and,
// on a match, replaces the account credential.
//
// The guards run in a fixed order: missing record, lockout, already used,
// expired, mismatch. Only a confirmed credential update marks the code used,
// so a failed update leaves the code retryable until it expires.
func (s *Usecase) VerifyCodeAndReset(ctx context.Context, in VerifyCodeAndResetInput) error {
	ctx, span := s.startSpan(ctx, "VerifyCodeAndReset")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	rec, err := s.repoStore.GetResetCode(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("no reset code requested for this email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get reset code", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if rec.LockedOut() {
		if err := s.repoStore.DeleteResetCode(ctx, in.Email); err != nil {
			slog.ErrorContext(ctx, "failed to delete locked out reset code", "email", in.Email, "error", err)
		}
		return goerror.NewBusiness("too many invalid attempts, request a new code", goerror.CodePreconditionFailed)
	}

	if rec.Used {
		return goerror.NewBusiness("reset code has already been used", goerror.CodePreconditionFailed)
	}

	if rec.Expired(s.clock.Now()) {
		return goerror.NewBusiness("reset code has expired, request a new code", goerror.CodeTimeout)
	}

	if !s.hmac.Verify(rec.CodeHash, in.Code) {
		return s.registerMismatch(ctx, in.Email)
	}

	account, err := s.repoIDP.Lookup(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account disappeared between issue and verify", "email", in.Email)
		return goerror.NewBusiness("no account found for this email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to lookup account", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoIDP.UpdateCredential(ctx, account.ID, in.NewPassword); err != nil {
		slog.ErrorContext(ctx, "failed to update account credential", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	// The credential is already rotated at this point; a failed flip only
	// risks one extra accepted reuse within the TTL, which the provider
	// call above makes harmless.
	if _, err := s.repoStore.ConsumeResetCode(ctx, in.Email); err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to mark reset code used", "email", in.Email, "error", err)
	}

	return nil
}

func (s *Usecase) registerMismatch(ctx context.Context, email string) error {
	attempts, err := s.repoStore.RegisterAttempt(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("no reset code requested for this email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to register invalid attempt", "email", email, "error", err)
		return goerror.NewServer(err)
	}

	if attempts >= entity.MaxAttempts {
		slog.WarnContext(ctx, "reset code locked out", "email", email, "attempts", attempts)
		return goerror.NewBusiness("too many invalid attempts, request a new code", goerror.CodePreconditionFailed)
	}

	return goerror.NewBusiness("invalid reset code", goerror.CodeInvalidInput)
}
