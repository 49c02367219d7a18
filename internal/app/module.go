package app

import (
	"log/slog"
	"os"

	"github.com/kodapp/resetgate/internal/notification"
	"github.com/kodapp/resetgate/internal/reset"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.reset.enabled") {
		if err := reset.New(reset.Dependency{
			CacheConn:     a.cacheConn,
			AuthClient:    a.authClient,
			Router:        a.router,
			Messaging:     a.messaging,
			Config:        a.config,
			Instrument:    a.ins,
			UID:           a.uid,
			HMAC:          a.hmac,
			CodeGenerator: a.otpcode,
			Clock:         a.clock,
			Validator:     a.validator,
		}); err != nil {
			slog.Error("failed to init module reset", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Mail:        a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
