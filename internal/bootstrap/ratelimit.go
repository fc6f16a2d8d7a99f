package bootstrap

import (
	"log"

	"github.com/go-aegis/aegis/internal/audit"
	"github.com/go-aegis/aegis/internal/config"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/middleware"

	"github.com/gin-gonic/gin"
)

// rateLimitMiddlewares holds rate limiting middlewares for different endpoints
type rateLimitMiddlewares struct {
	credentials gin.HandlerFunc // sign-in, two-step, sign-up
	mail        gin.HandlerFunc // endpoints that trigger outbound mail
}

// setupRateLimiting configures rate limiting middlewares based on configuration
func setupRateLimiting(
	cfg *config.Config,
	recorder core.Recorder,
	auditService *audit.Service,
) rateLimitMiddlewares {
	// Return no-op middlewares when rate limiting is disabled
	noOpMiddleware := func(c *gin.Context) { c.Next() }

	if !cfg.RateLimitEnabled {
		return rateLimitMiddlewares{
			credentials: noOpMiddleware,
			mail:        noOpMiddleware,
		}
	}

	return createRateLimiters(cfg, recorder, auditService)
}

// createRateLimiters creates rate limiting middlewares for all endpoints
func createRateLimiters(
	cfg *config.Config,
	recorder core.Recorder,
	auditService *audit.Service,
) rateLimitMiddlewares {
	log.Printf("Rate limiting enabled (store: %s)", cfg.RateLimitStore)

	storeType := middleware.RateLimitStoreType(cfg.RateLimitStore)
	if storeType == middleware.RateLimitStoreRedis {
		log.Printf("Redis rate limiting configured: %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)
	} else {
		log.Printf("In-memory rate limiting configured (single instance only)")
	}

	createLimiter := func(requestsPerMinute int, endpoint string) gin.HandlerFunc {
		limiter, err := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			CleanupInterval:   cfg.RateLimitCleanupInterval,
			StoreType:         storeType,
			RedisAddr:         cfg.RedisAddr,
			RedisPassword:     cfg.RedisPassword,
			RedisDB:           cfg.RedisDB,
		}, recorder, auditService)
		if err != nil {
			log.Fatalf("Failed to create rate limiter for %s: %v", endpoint, err)
		}
		return limiter
	}

	return rateLimitMiddlewares{
		credentials: createLimiter(cfg.SignInPerMinute, "/sign-in"),
		mail:        createLimiter(cfg.SignInPerMinute, "/forgot-password"),
	}
}
