package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/kodapp/resetgate/internal/notification/usecase"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/messaging"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/kodapp/resetgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) ResetCodeNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "ResetCodeNotification")
	defer span.End()

	// The payload carries the plaintext code; never log the body here.
	var payload event.ResetCodeIssuedMessage
	if err := json.Unmarshal(msg.Body(), &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of reset code notification", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: reset code notification", "event_id", payload.EventID, "email", payload.Email)

	if err := h.uc.ConsumeResetCode(ctx, usecase.ConsumeResetCodeInput{
		EventID: payload.EventID,
		Email:   payload.Email,
		Code:    payload.Code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume reset code", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
