package persistence

import (
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// saveVersioned inserts a new aggregate row, or updates the existing one
// guarded by the version column. The update only lands when the stored
// version still matches the aggregate's, and bumps it by one; a mismatch
// reports ErrConcurrencyConflict. On return the model carries the version
// that is now stored.
func saveVersioned(db *gorm.DB, model models.VersionedModel, id uuid.UUID) error {
	loaded := model.CurrentVersion()
	model.SetVersion(loaded + 1)
	result := db.Model(model).
		Where("id = ? AND version = ?", id, loaded).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Table(model.TableName()).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict.WithDetail("id", id.String())
	}

	model.SetVersion(loaded)
	return db.Create(model).Error
}
