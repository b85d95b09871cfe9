package persistence

import (
	"github.com/google/uuid"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versionedAggregate is implemented by persistence models that embed
// AggregateModel.
type versionedAggregate interface {
	AggregateVersion() int
}

// saveAggregate writes an aggregate root row with an optimistic version
// check. Domain commands bump the version in memory before Save, so an
// update only applies while the stored row is still behind the version
// being written. A row another writer has already advanced to or past
// that version reports shared.ErrConcurrencyConflict.
func saveAggregate(tx *gorm.DB, model versionedAggregate, id uuid.UUID) error {
	var stored []int
	if err := tx.Model(model).Where("id = ?", id).Limit(1).Pluck("version", &stored).Error; err != nil {
		return err
	}
	if len(stored) == 0 {
		return tx.Omit(clause.Associations).Create(model).Error
	}
	if stored[0] >= model.AggregateVersion() {
		return shared.ErrConcurrencyConflict
	}

	result := tx.Model(model).Select("*").
		Omit("id", "created_at", clause.Associations).
		Where("id = ? AND version = ?", id, stored[0]).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
