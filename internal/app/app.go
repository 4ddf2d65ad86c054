package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/wishbox/wishbox/internal/pkg/clock"
	"github.com/wishbox/wishbox/internal/pkg/config"
	"github.com/wishbox/wishbox/internal/pkg/goroutine"
	"github.com/wishbox/wishbox/internal/pkg/idempotency"
	"github.com/wishbox/wishbox/internal/pkg/instrument"
	"github.com/wishbox/wishbox/internal/pkg/jwt"
	"github.com/wishbox/wishbox/internal/pkg/mail"
	"github.com/wishbox/wishbox/internal/pkg/messaging"
	"github.com/wishbox/wishbox/internal/pkg/otp"
	"github.com/wishbox/wishbox/internal/pkg/router"
	"github.com/wishbox/wishbox/internal/pkg/storage"
	"github.com/wishbox/wishbox/internal/pkg/uid"
	"github.com/wishbox/wishbox/internal/pkg/validator"
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
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	otp       otp.Generator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage

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
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
