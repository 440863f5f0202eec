package persistence

import (
	"context"

	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReconciliationHistoryRepository implements HistoryRepository using GORM
type GormReconciliationHistoryRepository struct {
	db *gorm.DB
}

// NewGormReconciliationHistoryRepository creates a new GormReconciliationHistoryRepository
func NewGormReconciliationHistoryRepository(db *gorm.DB) *GormReconciliationHistoryRepository {
	return &GormReconciliationHistoryRepository{db: db}
}

// FindForTransaction finds the audit trail for a transaction, newest first
func (r *GormReconciliationHistoryRepository) FindForTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) ([]banking.ReconciliationHistory, error) {
	var historyModels []models.ReconciliationHistoryModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID).
		Order("created_at DESC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	records := make([]banking.ReconciliationHistory, len(historyModels))
	for i, model := range historyModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save appends an audit record
func (r *GormReconciliationHistoryRepository) Save(ctx context.Context, record *banking.ReconciliationHistory) error {
	model := models.ReconciliationHistoryModelFromDomain(record)
	if err := saveVersioned(r.db.WithContext(ctx), model, record.ID); err != nil {
		return err
	}
	record.Version = model.Version
	return nil
}
