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

// GormClassificationRepository implements ClassificationRepository using GORM
type GormClassificationRepository struct {
	db *gorm.DB
}

// NewGormClassificationRepository creates a new GormClassificationRepository
func NewGormClassificationRepository(db *gorm.DB) *GormClassificationRepository {
	return &GormClassificationRepository{db: db}
}

// FindByIDForTenant finds a classification by ID for a specific tenant
func (r *GormClassificationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AIClassification, error) {
	var model models.ClassificationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatestForDocument finds the most recent classification for a document
func (r *GormClassificationRepository) FindLatestForDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*accounting.AIClassification, error) {
	var model models.ClassificationModel
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

// FindHistoryForDocument finds all classification attempts for a document,
// newest first
func (r *GormClassificationRepository) FindHistoryForDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]accounting.AIClassification, error) {
	var classificationModels []models.ClassificationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND document_id = ?", tenantID, documentID).
		Order("created_at DESC").
		Find(&classificationModels).Error; err != nil {
		return nil, err
	}
	classifications := make([]accounting.AIClassification, len(classificationModels))
	for i, model := range classificationModels {
		classifications[i] = *model.ToDomain()
	}
	return classifications, nil
}

// Save creates or updates a classification
func (r *GormClassificationRepository) Save(ctx context.Context, classification *accounting.AIClassification) error {
	model := models.ClassificationModelFromDomain(classification)
	if err := saveVersioned(r.db.WithContext(ctx), model, classification.ID); err != nil {
		return err
	}
	classification.Version = model.Version
	return nil
}
