package reset

import (
	"firebase.google.com/go/v4/auth"
	"github.com/kodapp/resetgate/internal/pkg/clock"
	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/hash"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/messaging"
	"github.com/kodapp/resetgate/internal/pkg/otpcode"
	"github.com/kodapp/resetgate/internal/pkg/router"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/kodapp/resetgate/internal/pkg/validator"
	"github.com/kodapp/resetgate/internal/reset/inbound"
	"github.com/kodapp/resetgate/internal/reset/outbound/idp"
	"github.com/kodapp/resetgate/internal/reset/outbound/mq"
	"github.com/kodapp/resetgate/internal/reset/outbound/store"
	"github.com/kodapp/resetgate/internal/reset/usecase"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	CacheConn     *redis.Client              `validate:"required"`
	AuthClient    *auth.Client               `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Messaging     messaging.Messaging        `validate:"required"`
	Config        config.Config              `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	UID           uid.NumberID               `validate:"required"`
	HMAC          hash.Hash                  `validate:"required"`
	CodeGenerator otpcode.Generator          `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	Validator     validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoStore := store.NewStore(store.Config{
		Client:     dep.CacheConn,
		Instrument: dep.Instrument,
		Clock:      dep.Clock,
		UID:        dep.UID,
		Window:     dep.Config.GetHour("modules.reset.issue_window_hours"),
		Limit:      dep.Config.GetInt64("modules.reset.issue_limit"),
	})
	repoIDP := idp.NewFirebase(dep.AuthClient, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.UID, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoStore:     repoStore,
		RepoIDP:       repoIDP,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		CodeGenerator: dep.CodeGenerator,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
