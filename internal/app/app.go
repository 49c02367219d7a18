package app

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/kodapp/resetgate/internal/pkg/clock"
	"github.com/kodapp/resetgate/internal/pkg/config"
	"github.com/kodapp/resetgate/internal/pkg/goroutine"
	"github.com/kodapp/resetgate/internal/pkg/hash"
	"github.com/kodapp/resetgate/internal/pkg/idempotency"
	"github.com/kodapp/resetgate/internal/pkg/instrument"
	"github.com/kodapp/resetgate/internal/pkg/jwt"
	"github.com/kodapp/resetgate/internal/pkg/mail"
	"github.com/kodapp/resetgate/internal/pkg/messaging"
	"github.com/kodapp/resetgate/internal/pkg/otpcode"
	"github.com/kodapp/resetgate/internal/pkg/router"
	"github.com/kodapp/resetgate/internal/pkg/uid"
	"github.com/kodapp/resetgate/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otpcode   otpcode.Generator
	jwt       jwt.JWT

	// resources
	cacheConn  *redis.Client
	idemp      idempotency.Idempotency
	mail       mail.Mail
	messaging  messaging.Messaging
	authClient *auth.Client

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initCache()
	app.initIdentityProvider()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
