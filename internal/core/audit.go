package core

import (
	"context"

	"github.com/go-aegis/aegis/internal/models"
)

// AuditEvent is one typed audit event published by a handler. Events are a
// side channel: publication must never fail a business operation.
type AuditEvent struct {
	Type     models.EventType
	Severity models.EventSeverity

	ActorUserID   string
	ActorUsername string
	ActorIP       string

	ResourceType models.ResourceType
	ResourceID   string
	ResourceName string

	Action       string
	Details      models.AuditDetails
	Success      bool
	ErrorMessage string
}

// AuditRecorder accepts audit events for asynchronous persistence.
type AuditRecorder interface {
	Log(ctx context.Context, event AuditEvent)
}
