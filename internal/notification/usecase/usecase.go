package usecase

import (
	"context"

	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/idempotency"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/mail"
	"github.com/kodapp/resetgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoEmail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoEmail repoEmail
	idemp     idempotency.Idempotency
	validator validator.Validator
	cfg       config.Config
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoEmail   repoEmail
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoEmail: dep.RepoEmail,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		cfg:       dep.Config,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
