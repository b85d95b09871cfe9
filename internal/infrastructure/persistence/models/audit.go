package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
)

// AuditEntryModel is the persistence model for audit log entries.
// Entries are append-only and never updated.
type AuditEntryModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	Action     string     `gorm:"type:varchar(100);not null;index"`
	EntityType string     `gorm:"type:varchar(50);not null;index"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	Before     string     `gorm:"type:text"`
	After      string     `gorm:"type:text"`
	RecordedAt time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain AuditEntry.
func (m *AuditEntryModel) ToDomain() shared.AuditEntry {
	return shared.AuditEntry{
		ID:         m.ID,
		Action:     m.Action,
		EntityType: m.EntityType,
		EntityID:   m.EntityID,
		ActorID:    m.ActorID,
		Before:     m.Before,
		After:      m.After,
		RecordedAt: m.RecordedAt,
	}
}

// AuditEntryModelFromDomain creates a new persistence model from a domain AuditEntry.
func AuditEntryModelFromDomain(e shared.AuditEntry) *AuditEntryModel {
	return &AuditEntryModel{
		ID:         e.ID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		ActorID:    e.ActorID,
		Before:     e.Before,
		After:      e.After,
		RecordedAt: e.RecordedAt,
	}
}
