package notification

import (
	"context"

	"github.com/kodapp/resetgate/internal/notification/inbound"
	"github.com/kodapp/resetgate/internal/notification/outbound/email"
	"github.com/kodapp/resetgate/internal/notification/usecase"
	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/goroutine"
	"github.com/kodapp/resetgate/internal/pkg/idempotency"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/mail"
	"github.com/kodapp/resetgate/internal/pkg/messaging"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/kodapp/resetgate/internal/pkg/validator"
)

type Dependency struct {
	Ctx         context.Context
	Messaging   messaging.Messaging
	Idempotency idempotency.Idempotency
	Config      config.Config
	Instrument  instrument.Instrumentation
	UUID        uid.StringID
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Mail        mail.Mail
}

func New(dep Dependency) error {
	repoMail := email.New(dep.Mail, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoEmail:   repoMail,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Config:      dep.Config,
		Instrument:  dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
