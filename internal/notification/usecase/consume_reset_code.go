package usecase

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/kodapp/resetgate/internal/notification/entity"
	"github.com/kodapp/resetgate/internal/pkg/mail"
)

type ConsumeResetCodeInput struct {
	EventID int64  `validate:"required,gt=0"`
	Email   string `validate:"required,email"`
	Code    string `validate:"required,len=6,numeric"`
}

// ConsumeResetCode delivers the reset code to the principal over email.
//
// Duplicate events (at-least-once delivery) are dropped via the idempotency
// guard; a failed send releases the guard so the broker can redeliver.
func (s *Usecase) ConsumeResetCode(ctx context.Context, in ConsumeResetCodeInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeResetCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	idemKey := "reset_code_issued:" + strconv.FormatInt(in.EventID, 10)
	won, err := s.idemp.Acquire(ctx, idemKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire idempotency key", "key", idemKey, "error", err)
		return err
	}
	if !won {
		slog.InfoContext(ctx, "skipping duplicate reset code event", "event_id", in.EventID)
		return nil
	}

	htmlBody, textBody, err := renderResetCodeEmail(resetCodeTemplateData{
		Code:       in.Code,
		TTLMinutes: int64(s.cfg.GetMinute("modules.reset.code_ttl_minutes").Minutes()),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render reset code email", "error", err)
		return err
	}

	if err := s.repoEmail.Send(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  s.cfg.GetString("modules.notification.reset_code_subject"),
		TextBody: textBody,
		HTMLBody: htmlBody,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send reset code email", "email", in.Email, "error", err)
		if rerr := s.idemp.Release(ctx, idemKey); rerr != nil {
			slog.ErrorContext(ctx, "failed to release idempotency key", "key", idemKey, "error", rerr)
		}
		return err
	}

	slog.InfoContext(ctx, "notification delivered",
		"trigger", entity.TriggerKeyResetCode.String(),
		"event_id", in.EventID,
	)

	return nil
}
