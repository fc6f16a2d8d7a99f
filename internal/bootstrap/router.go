package bootstrap

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-aegis/aegis/internal/audit"
	"github.com/go-aegis/aegis/internal/config"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/handlers"
	"github.com/go-aegis/aegis/internal/middleware"
	"github.com/go-aegis/aegis/internal/store"
	"github.com/go-aegis/aegis/internal/templates"
	"github.com/go-aegis/aegis/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter configures the Gin router with all routes and middleware
func setupRouter(
	cfg *config.Config,
	db *store.Store,
	h handlerSet,
	auditService *audit.Service,
	recorder core.Recorder,
) (*gin.Engine, error) {
	setupGinMode(cfg)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(util.IPMiddleware())

	// Embedded views
	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// Health check endpoint (outside the session scope)
	r.GET("/healthz", createHealthCheckHandler(db))

	// Metrics endpoint
	setupMetricsEndpoint(r, cfg)

	// Rate limiting
	rateLimiters := setupRateLimiting(cfg, recorder, auditService)

	// Everything below carries a session, CSRF protection, and idle expiry
	web := r.Group("")
	setupSessionMiddleware(web, cfg)
	setupWebRoutes(web, h, rateLimiters)

	logServerStartup(cfg)

	return r, nil
}

// setupSessionMiddleware configures session handling for the web routes
func setupSessionMiddleware(web *gin.RouterGroup, cfg *config.Config) {
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: http.SameSiteLaxMode,
	})
	web.Use(sessions.Sessions("aegis_session", sessionStore))
	web.Use(middleware.SessionContext(cfg.IsProduction))
	web.Use(middleware.SessionIdleTimeout(cfg.SessionIdleTimeout))
	web.Use(middleware.CSRF())
}

// setupWebRoutes registers the identity flows
func setupWebRoutes(web *gin.RouterGroup, h handlerSet, rateLimiters rateLimitMiddlewares) {
	// Sign-in and two-step verification
	web.GET("/sign-in", func(c *gin.Context) {
		h.auth.SignInPageWithProviders(c, h.providers)
	})
	web.POST("/sign-in", rateLimiters.credentials, h.auth.SignIn)
	web.GET("/sign-in/two-step", h.auth.TwoStepPage)
	web.POST("/sign-in/two-step", rateLimiters.credentials, h.auth.TwoStep)
	web.POST("/sign-in/two-step/send-code", rateLimiters.mail, h.account.SendCode)

	// External sign-in providers
	if len(h.providers) > 0 {
		web.GET("/auth/sign-in/:provider", h.external.Begin)
		web.GET("/auth/callback/:provider", h.external.Callback)
	}

	// Sign-out, locally and relying-party initiated
	web.GET("/sign-out", h.auth.SignOutPage)
	web.POST("/sign-out", h.auth.SignOut)
	web.GET("/connect/endsession", h.auth.EndSession)

	// Registration and activation
	web.GET("/sign-up", h.account.SignUpPage)
	web.POST("/sign-up", rateLimiters.credentials, h.account.SignUp)
	web.GET("/locked", h.account.LockedPage)
	web.GET("/not-active", h.account.NotActivePage)
	web.POST("/not-active/resend", rateLimiters.mail, h.account.ResendActivation)
	web.GET("/activate", h.account.Activate)

	// Password recovery
	web.GET("/forgot-password", h.account.ForgotPasswordPage)
	web.POST("/forgot-password", rateLimiters.mail, h.account.ForgotPassword)
	web.GET("/reset-password", h.account.ResetPasswordPage)
	web.POST("/reset-password", rateLimiters.credentials, h.account.ResetPassword)

	// Signed-in landing page
	protected := web.Group("")
	protected.Use(middleware.RequireAuth(h.users))
	{
		protected.GET("/", handlers.HomePage)
	}
}

// setupMetricsEndpoint configures the Prometheus metrics endpoint
func setupMetricsEndpoint(r *gin.Engine, cfg *config.Config) {
	if !cfg.MetricsEnabled {
		log.Printf("Prometheus metrics disabled")
		return
	}
	log.Printf("Prometheus metrics enabled at /metrics")
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// createHealthCheckHandler creates health check endpoint handler
func createHealthCheckHandler(db *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch err := db.Health(); err {
		case nil:
			c.JSON(http.StatusOK, gin.H{
				"status":   "healthy",
				"database": "connected",
			})
		default:
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "disconnected",
			})
		}
	}
}

// setupGinMode sets Gin mode based on environment configuration
func setupGinMode(cfg *config.Config) {
	gin.SetMode(ginModeMap[cfg.IsProduction])
	log.Printf("Gin mode: %s", ginModeLogMessage[cfg.IsProduction])
}

var ginModeMap = map[bool]string{
	true:  gin.ReleaseMode,
	false: gin.DebugMode,
}

var ginModeLogMessage = map[bool]string{
	true:  "Release (production)",
	false: "Debug (development)",
}

// logServerStartup logs server startup information
func logServerStartup(cfg *config.Config) {
	log.Printf("Identity server starting on %s", cfg.ServerAddr)
	log.Printf("Sign-in URL: %s/sign-in", cfg.BaseURL)
}
