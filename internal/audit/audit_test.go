package audit

import (
	"context"
	"testing"
	"time"

	"github.com/go-aegis/aegis/internal/core"
	"github.com/go-aegis/aegis/internal/models"
	"github.com/go-aegis/aegis/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAudit(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	svc := NewService(s, true, 16)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc, s
}

func TestLogSync_WritesEntry(t *testing.T) {
	svc, s := setupAudit(t)

	err := svc.LogSync(context.Background(), core.AuditEvent{
		Type:          models.EventSignInSuccess,
		Severity:      models.SeverityInfo,
		ActorUserID:   "u1",
		ActorUsername: "tester",
		ResourceType:  models.ResourceUser,
		ResourceID:    "u1",
		Action:        "user signed in",
		Success:       true,
	})
	require.NoError(t, err)

	entries, err := s.GetAuditLogsByActor("u1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EventSignInSuccess, entries[0].EventType)
	assert.True(t, entries[0].Success)
}

func TestLog_AsyncFlush(t *testing.T) {
	svc, s := setupAudit(t)

	svc.Log(context.Background(), core.AuditEvent{
		Type:     models.EventSignInFailure,
		Severity: models.SeverityWarning,
		Action:   "sign in failed",
	})

	// The worker flushes at least once per second
	require.Eventually(t, func() bool {
		entries, err := s.GetAuditLogsByType(models.EventSignInFailure, 10)
		return err == nil && len(entries) == 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestLogSync_MasksSensitiveDetails(t *testing.T) {
	svc, s := setupAudit(t)

	err := svc.LogSync(context.Background(), core.AuditEvent{
		Type:        models.EventPasswordReset,
		Severity:    models.SeverityInfo,
		ActorUserID: "u2",
		Action:      "password reset",
		Success:     true,
		Details: models.AuditDetails{
			"password": "hunter2",
			"email":    "a@example.com",
		},
	})
	require.NoError(t, err)

	entries, err := s.GetAuditLogsByActor("u2", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "***REDACTED***", entries[0].Details["password"])
	assert.Equal(t, "a@example.com", entries[0].Details["email"])
}

func TestLog_DisabledServiceIsNoop(t *testing.T) {
	s, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	svc := NewService(s, false, 16)

	svc.Log(context.Background(), core.AuditEvent{
		Type:   models.EventSignOut,
		Action: "sign out",
	})
	require.NoError(t, svc.LogSync(context.Background(), core.AuditEvent{
		Type:   models.EventSignOut,
		Action: "sign out",
	}))

	entries, err := s.GetAuditLogsByType(models.EventSignOut, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
