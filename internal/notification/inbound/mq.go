package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/kodapp/resetgate/internal/notification/usecase"
	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/goroutine"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/messaging"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/kodapp/resetgate/internal/shared/event"
)

type uc interface {
	ConsumeResetCode(ctx context.Context, in usecase.ConsumeResetCodeInput) error
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name    string
		topic   string // destination where publisher sent message
		handler messaging.Handler
	}{
		{
			name:    event.ResetCodeIssuedConsumerNotification,
			topic:   event.ResetCodeIssuedDestination,
			handler: mqHandler.ResetCodeNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithQueueGroup(consumer.name),
					messaging.WithGroup(consumer.name),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
