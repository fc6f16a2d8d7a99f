package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-aegis/aegis/internal/auth"
	"github.com/go-aegis/aegis/internal/cache"
	"github.com/go-aegis/aegis/internal/config"
	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// cacheSet holds the transient-state caches shared by the identity services.
type cacheSet struct {
	codes          core.Cache[string]                // emailed two-factor codes
	pending        core.Cache[auth.PendingTwoFactor] // sign-ins waiting for a code
	trusted        core.Cache[string]                // remembered devices
	logoutContexts core.Cache[core.LogoutRequest]    // pending sign-out requests
}

// initializeRedisClient creates the shared go-redis client.
// Returns nil when the memory backend is configured.
func initializeRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		return nil, nil //nolint:nilnil // redis client not needed in this configuration
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	log.Printf("Cache backend: redis (address: %s, db: %d)", cfg.RedisAddr, cfg.RedisDB)
	return client, nil
}

// initializeCaches builds the cache set on the configured backend.
// The prefixes keep the caches apart inside a shared Redis database.
func initializeCaches(cfg *config.Config, client *redis.Client) cacheSet {
	if client != nil {
		return cacheSet{
			codes:          cache.NewRedisCache[string](client, "2fa_code"),
			pending:        cache.NewRedisCache[auth.PendingTwoFactor](client, "pending_2fa"),
			trusted:        cache.NewRedisCache[string](client, "trusted_device"),
			logoutContexts: cache.NewRedisCache[core.LogoutRequest](client, "logout_ctx"),
		}
	}

	log.Println("Cache backend: memory (single instance only)")
	return cacheSet{
		codes:          cache.NewMemoryCache[string](),
		pending:        cache.NewMemoryCache[auth.PendingTwoFactor](),
		trusted:        cache.NewMemoryCache[string](),
		logoutContexts: cache.NewMemoryCache[core.LogoutRequest](),
	}
}

// initializeMetrics selects the metrics recorder implementation
func initializeMetrics(cfg *config.Config) core.Recorder {
	if cfg.MetricsEnabled {
		log.Println("Prometheus metrics initialized")
		return metrics.New()
	}
	log.Println("Metrics disabled (using noop implementation)")
	return metrics.NewNoop()
}
