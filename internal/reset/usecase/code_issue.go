package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/kodapp/resetgate/internal/pkg/goerror"
	"github.com/kodapp/resetgate/internal/reset/entity"
)

type IssueCodeInput struct {
	Email string `validate:"required,email,max=100"`
}

// IssueCode generates a one-time reset code for the principal, stores it and
// hands it to the notifier path.
//
// Guard order: validation, rate limit, identity lookup. The code never
// touches the store in plaintext; only its HMAC is persisted.
func (s *Usecase) IssueCode(ctx context.Context, in IssueCodeInput) error {
	ctx, span := s.startSpan(ctx, "IssueCode")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	allowed, retryAfter, err := s.repoStore.ThrottleIssue(ctx, in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check issuance rate limit", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}
	if !allowed {
		slog.WarnContext(ctx, "reset code issuance throttled", "email", in.Email, "retry_after", retryAfter)
		return goerror.NewBusiness("too many reset requests, please try again later",
			goerror.CodeTooManyRequest,
			"retry_after", strconv.FormatInt(int64(retryAfter.Seconds()), 10))
	}

	account, err := s.repoIDP.Lookup(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "reset code requested for unknown account", "email", in.Email)
		return goerror.NewBusiness("no account found for this email", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to lookup account", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	code, err := s.codeGen.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate reset code", "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash reset code", "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	ttl := s.cfg.GetMinute("modules.reset.code_ttl_minutes")
	rec := entity.OtpRecord{
		CodeHash:  string(codeHash),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		Used:      false,
		Attempts:  0,
	}

	if err := s.repoStore.SaveResetCode(ctx, in.Email, rec, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to save reset code", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	// Delivery is best effort: the record stays valid even when the event
	// cannot be published.
	if err := s.repoMessaging.PublishResetCodeIssued(ctx, ResetCodeIssuedEvent{
		Email:     account.Email,
		Code:      code,
		ExpiresAt: rec.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish reset code issued", "email", in.Email, "error", err)
	}

	return nil
}
