package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is a single record in the system activity log. Every mutating
// application-service operation produces exactly one entry.
type AuditEntry struct {
	ID         uuid.UUID  `json:"id"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	Before     string     `json:"before,omitempty"`
	After      string     `json:"after,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// NewAuditEntry creates an audit entry for an entity mutation
func NewAuditEntry(action, entityType string, entityID uuid.UUID) AuditEntry {
	return AuditEntry{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RecordedAt: time.Now(),
	}
}

// WithActor sets the acting employee on the entry
func (e AuditEntry) WithActor(actorID uuid.UUID) AuditEntry {
	e.ActorID = &actorID
	return e
}

// WithSnapshots sets the before/after serialized state on the entry
func (e AuditEntry) WithSnapshots(before, after string) AuditEntry {
	e.Before = before
	e.After = after
	return e
}

// AuditRecorder persists audit entries. Recording is an observable side
// effect of every mutation but never part of its transactional outcome;
// implementations log failures and return them for the caller to ignore.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// NopAuditRecorder discards all entries. Used where auditing is disabled.
type NopAuditRecorder struct{}

// Record implements AuditRecorder
func (NopAuditRecorder) Record(ctx context.Context, entry AuditEntry) error {
	return nil
}
