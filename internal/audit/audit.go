package audit

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
	"github.com/go-aegis/aegis/internal/store"
	"github.com/go-aegis/aegis/internal/util"

	"github.com/google/uuid"
)

// Compile-time interface check.
var _ core.AuditRecorder = (*Service)(nil)

// Service persists audit events asynchronously: events are queued on a
// channel, batched, and flushed to the store by a background worker.
// Publication never blocks or fails the calling business operation.
type Service struct {
	store      *store.Store
	enabled    bool
	bufferSize int

	// Async logging channel
	logChan chan *models.AuditLog

	// Batch buffer
	batchBuffer []*models.AuditLog
	batchMutex  sync.Mutex
	batchTicker *time.Ticker

	// Graceful shutdown
	wg         sync.WaitGroup
	shutdownCh chan struct{}
}

// NewService creates the audit service and starts its worker when enabled.
func NewService(s *store.Store, enabled bool, bufferSize int) *Service {
	if bufferSize <= 0 {
		bufferSize = 1000 // Default buffer size
	}

	service := &Service{
		store:       s,
		enabled:     enabled,
		bufferSize:  bufferSize,
		logChan:     make(chan *models.AuditLog, bufferSize),
		batchBuffer: make([]*models.AuditLog, 0, 100),
		batchTicker: time.NewTicker(1 * time.Second),
		shutdownCh:  make(chan struct{}),
	}

	if enabled {
		service.wg.Add(1)
		go service.worker()
		log.Printf("Audit service started with buffer size %d", bufferSize)
	} else {
		log.Println("Audit service is disabled")
	}

	return service
}

// worker is the background goroutine that processes audit logs
func (s *Service) worker() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.logChan:
			s.addToBatch(entry)

		case <-s.batchTicker.C:
			// Flush batch every second
			s.flushBatch()

		case <-s.shutdownCh:
			// Flush remaining logs before shutdown
			s.flushBatch()
			return
		}
	}
}

// addToBatch adds a log entry to the batch buffer
func (s *Service) addToBatch(entry *models.AuditLog) {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()

	s.batchBuffer = append(s.batchBuffer, entry)

	// Flush if batch is full (100 entries)
	if len(s.batchBuffer) >= 100 {
		s.flushBatchUnsafe()
	}
}

// flushBatch flushes the batch buffer to the database (thread-safe)
func (s *Service) flushBatch() {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()
	s.flushBatchUnsafe()
}

// flushBatchUnsafe flushes the batch buffer without locking (caller must hold lock)
func (s *Service) flushBatchUnsafe() {
	if len(s.batchBuffer) == 0 {
		return
	}

	// Copy buffer for writing
	toWrite := make([]*models.AuditLog, len(s.batchBuffer))
	copy(toWrite, s.batchBuffer)

	// Clear buffer
	s.batchBuffer = s.batchBuffer[:0]

	if err := s.store.CreateAuditLogBatch(toWrite); err != nil {
		log.Printf("Failed to write audit log batch: %v", err)
	}
}

// Log records an audit event asynchronously.
func (s *Service) Log(ctx context.Context, event core.AuditEvent) {
	if !s.enabled {
		return
	}

	entry := s.buildEntry(ctx, event)

	// Try to send to channel (non-blocking)
	select {
	case s.logChan <- entry:
		// Successfully sent
	default:
		// Channel is full, drop the event and log warning
		log.Printf("WARNING: Audit log buffer full, dropping event: %s", event.Action)
	}
}

// LogSync records an audit event synchronously (for critical events).
func (s *Service) LogSync(ctx context.Context, event core.AuditEvent) error {
	if !s.enabled {
		return nil
	}
	return s.store.CreateAuditLog(s.buildEntry(ctx, event))
}

func (s *Service) buildEntry(ctx context.Context, event core.AuditEvent) *models.AuditLog {
	// Extract IP from context if not provided
	if event.ActorIP == "" {
		event.ActorIP = util.GetIPFromContext(ctx)
	}

	// Extract username from context if not provided
	if event.ActorUsername == "" {
		event.ActorUsername = util.GetUsernameFromContext(ctx)
	}

	now := time.Now()
	return &models.AuditLog{
		ID:            uuid.New().String(),
		EventType:     event.Type,
		EventTime:     now,
		Severity:      event.Severity,
		ActorUserID:   event.ActorUserID,
		ActorUsername: event.ActorUsername,
		ActorIP:       event.ActorIP,
		ResourceType:  event.ResourceType,
		ResourceID:    event.ResourceID,
		ResourceName:  event.ResourceName,
		Action:        event.Action,
		Details:       maskSensitiveDetails(event.Details),
		Success:       event.Success,
		ErrorMessage:  event.ErrorMessage,
		CreatedAt:     now,
	}
}

// CleanupOldLogs deletes audit logs older than the retention period.
func (s *Service) CleanupOldLogs(retention time.Duration) (int64, error) {
	cutoffTime := time.Now().Add(-retention)
	return s.store.DeleteOldAuditLogs(cutoffTime)
}

// Shutdown gracefully shuts down the audit service
func (s *Service) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	// Stop ticker
	s.batchTicker.Stop()

	// Signal worker to stop
	close(s.shutdownCh)

	// Wait for worker to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Audit service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}

// maskSensitiveDetails masks sensitive information in audit log details
func maskSensitiveDetails(details models.AuditDetails) models.AuditDetails {
	if details == nil {
		return details
	}

	masked := make(models.AuditDetails)
	for key, value := range details {
		// Complete masking for these fields
		if isSensitiveField(key) {
			masked[key] = "***REDACTED***"
			continue
		}

		// Partial masking for tokens and codes
		if isPartialMaskField(key) {
			if str, ok := value.(string); ok && len(str) > 12 {
				masked[key] = str[:8] + "..." + str[len(str)-4:]
				continue
			}
		}

		// Keep other fields as-is
		masked[key] = value
	}

	return masked
}

// isSensitiveField checks if a field should be completely masked
func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	sensitiveFields := []string{
		"password",
		"secret",
		"token",
		"code",
		"security_stamp",
	}

	for _, field := range sensitiveFields {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}

// isPartialMaskField checks if a field should be partially masked
func isPartialMaskField(key string) bool {
	key = strings.ToLower(key)
	partialMaskFields := []string{
		"session_id",
		"logout_id",
	}

	for _, field := range partialMaskFields {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}
