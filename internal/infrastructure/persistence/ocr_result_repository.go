package persistence

import (
	"context"
	"errors"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOCRResultRepository implements OCRResultRepository using GORM
type GormOCRResultRepository struct {
	db *gorm.DB
}

// NewGormOCRResultRepository creates a new GormOCRResultRepository
func NewGormOCRResultRepository(db *gorm.DB) *GormOCRResultRepository {
	return &GormOCRResultRepository{db: db}
}

// FindLatestForDocument finds the most recent OCR pass for a document
func (r *GormOCRResultRepository) FindLatestForDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*accounting.OCRResult, error) {
	var model models.OCRResultModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND document_id = ?", tenantID, documentID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an OCR result
func (r *GormOCRResultRepository) Save(ctx context.Context, result *accounting.OCRResult) error {
	model := models.OCRResultModelFromDomain(result)
	if err := saveVersioned(r.db.WithContext(ctx), model, result.ID); err != nil {
		return err
	}
	result.Version = model.Version
	return nil
}
