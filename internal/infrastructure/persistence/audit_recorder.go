package persistence

import (
	"context"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormAuditRecorder persists audit entries to the audit_entries table.
// Failures are logged and returned; callers treat auditing as best-effort
// and never fail the originating operation on a recording error.
type GormAuditRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAuditRecorder creates a new GORM-based audit recorder
func NewGormAuditRecorder(db *gorm.DB, logger *zap.Logger) *GormAuditRecorder {
	return &GormAuditRecorder{db: db, logger: logger}
}

var _ shared.AuditRecorder = (*GormAuditRecorder)(nil)

// Record appends an audit entry
func (r *GormAuditRecorder) Record(ctx context.Context, entry shared.AuditEntry) error {
	model := models.AuditEntryModelFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("Failed to record audit entry",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err))
		return err
	}
	return nil
}
