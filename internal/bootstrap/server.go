package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-aegis/aegis/internal/audit"
	"github.com/go-aegis/aegis/internal/config"

	"github.com/appleboy/graceful"
	"github.com/redis/go-redis/v9"
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addRedisClientShutdownJob adds Redis client shutdown handler
func addRedisClientShutdownJob(m *graceful.Manager, redisClient *redis.Client) {
	if redisClient == nil {
		return
	}

	m.AddShutdownJob(func() error {
		log.Println("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
			return err
		}
		log.Println("Redis connection closed")
		return nil
	})
}

// addAuditShutdownJob flushes buffered audit entries on shutdown
func addAuditShutdownJob(m *graceful.Manager, auditService *audit.Service) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down audit service...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := auditService.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down audit service: %v", err)
			return err
		}
		return nil
	})
}

// addAuditCleanupJob adds the periodic audit log cleanup job
func addAuditCleanupJob(
	m *graceful.Manager,
	cfg *config.Config,
	auditService *audit.Service,
) {
	if !cfg.AuditEnabled || cfg.AuditRetention <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		// Run cleanup immediately on startup
		runAuditCleanup(auditService, cfg.AuditRetention)

		for {
			select {
			case <-ticker.C:
				runAuditCleanup(auditService, cfg.AuditRetention)
			case <-ctx.Done():
				return nil
			}
		}
	})
}

func runAuditCleanup(auditService *audit.Service, retention time.Duration) {
	if deleted, err := auditService.CleanupOldLogs(retention); err != nil {
		log.Printf("Failed to cleanup old audit logs: %v", err)
	} else if deleted > 0 {
		log.Printf("Cleaned up %d old audit logs", deleted)
	}
}
