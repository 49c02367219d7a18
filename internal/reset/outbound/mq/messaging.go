package mq

import (
	"context"
	"encoding/json"

	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/messaging"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/kodapp/resetgate/internal/reset/usecase"
	"github.com/kodapp/resetgate/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	uid    uid.NumberID
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, uid uid.NumberID, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, uid: uid, ins: ins}
}

func (m *Messaging) PublishResetCodeIssued(ctx context.Context, msg usecase.ResetCodeIssuedEvent) error {
	ctx, span := m.ins.Tracer("reset.outbound.mq").Start(ctx, "PublishResetCodeIssued")
	defer span.End()

	body, err := json.Marshal(event.ResetCodeIssuedMessage{
		EventID:   m.uid.Generate(),
		Email:     msg.Email,
		Code:      msg.Code,
		ExpiresAt: msg.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.ResetCodeIssuedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.Email),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
