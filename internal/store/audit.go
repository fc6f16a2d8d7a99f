package store

import (
	"time"

	"github.com/go-aegis/aegis/internal/models"
)

// CreateAuditLog writes a single audit log entry.
func (s *Store) CreateAuditLog(entry *models.AuditLog) error {
	return s.db.Create(entry).Error
}

// CreateAuditLogBatch writes a batch of audit log entries in one insert.
func (s *Store) CreateAuditLogBatch(entries []*models.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}
	return s.db.Create(entries).Error
}

// GetAuditLogsByActor returns the most recent audit entries for one actor.
func (s *Store) GetAuditLogsByActor(actorUserID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.AuditLog
	err := s.db.Where("actor_user_id = ?", actorUserID).
		Order("event_time DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetAuditLogsByType returns the most recent audit entries of one event type.
func (s *Store) GetAuditLogsByType(eventType models.EventType, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var logs []models.AuditLog
	err := s.db.Where("event_type = ?", eventType).
		Order("event_time DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// DeleteOldAuditLogs removes entries older than the cutoff and returns the
// number of rows deleted.
func (s *Store) DeleteOldAuditLogs(cutoff time.Time) (int64, error) {
	result := s.db.Where("event_time < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
