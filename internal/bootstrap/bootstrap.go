package bootstrap

import (
	"net/http"

	"github.com/go-aegis/aegis/internal/audit"
	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/config"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/oidc"
	"github.com/go-aegis/aegis/internal/store"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB          *store.Store
	Metrics     core.Recorder
	RedisClient *redis.Client
	Caches      cacheSet

	// Services
	Audit         *audit.Service
	UserManager   *auth.Manager
	SignInService *auth.SignInService
	Authorization *oidc.AuthorizationResolver
	Logout        *oidc.LogoutResolver
	Mailer        core.Mailer

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Validate configuration
	validateConfiguration(cfg)

	// Phase 2: Initialize infrastructure
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 3: Initialize business layer
	if err := app.initializeBusinessLayer(); err != nil {
		return err
	}

	// Phase 4: Initialize HTTP layer
	if err := app.initializeHTTPLayer(); err != nil {
		return err
	}

	// Phase 5: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database, metrics, Redis, and caches
func (app *Application) initializeInfrastructure() error {
	var err error

	// Database
	app.DB, err = initializeDatabase(app.Config)
	if err != nil {
		return err
	}

	// Metrics
	app.Metrics = initializeMetrics(app.Config)

	// Redis (shared by the transient-state caches)
	app.RedisClient, err = initializeRedisClient(app.Config)
	if err != nil {
		return err
	}

	// Transient-state caches (two-factor codes, pending sign-ins,
	// trusted devices, logout contexts)
	app.Caches = initializeCaches(app.Config, app.RedisClient)

	return nil
}

// initializeBusinessLayer sets up the identity services
func (app *Application) initializeBusinessLayer() error {
	// Audit service (required by everything else)
	app.Audit = audit.NewService(app.DB, app.Config.AuditEnabled, app.Config.AuditBufferSize)

	app.UserManager,
		app.SignInService,
		app.Authorization,
		app.Logout = initializeServices(app.Config, app.DB, app.Caches)

	mailer, err := initializeMailer(app.Config, app.Metrics)
	if err != nil {
		return err
	}
	app.Mailer = mailer

	return nil
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() error {
	app.HandlerSet = initializeHandlers(
		app.Config,
		app.UserManager,
		app.SignInService,
		app.Authorization,
		app.Logout,
		app.Mailer,
		app.Audit,
		app.Metrics,
	)

	router, err := setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.Audit,
		app.Metrics,
	)
	if err != nil {
		return err
	}
	app.Router = router

	app.Server = createHTTPServer(app.Config, app.Router)
	return nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server)
	addRedisClientShutdownJob(m, app.RedisClient)
	addAuditShutdownJob(m, app.Audit)
	addAuditCleanupJob(m, app.Config, app.Audit)

	// Wait for graceful shutdown
	<-m.Done()
}
