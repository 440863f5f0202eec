package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAutoEntryRepository implements AutoEntryRepository using GORM
type GormAutoEntryRepository struct {
	db *gorm.DB
}

// NewGormAutoEntryRepository creates a new GormAutoEntryRepository
func NewGormAutoEntryRepository(db *gorm.DB) *GormAutoEntryRepository {
	return &GormAutoEntryRepository{db: db}
}

// FindByIDForTenant finds an entry proposal by ID for a specific tenant
func (r *GormAutoEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AutoEntry, error) {
	var model models.AutoEntryModel
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

// FindByDocument finds the most recent entry proposal for a document
func (r *GormAutoEntryRepository) FindByDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*accounting.AutoEntry, error) {
	var model models.AutoEntryModel
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

// FindPendingReview finds draft proposals waiting for human validation
func (r *GormAutoEntryRepository) FindPendingReview(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]accounting.AutoEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AutoEntryModel{}).
		Where("tenant_id = ? AND status = ? AND requires_review = ?",
			tenantID, accounting.AutoEntryStatusDraft, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, AutoEntrySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	var entryModels []models.AutoEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}
	entries := make([]accounting.AutoEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, total, nil
}

// Save creates or updates an entry proposal
func (r *GormAutoEntryRepository) Save(ctx context.Context, entry *accounting.AutoEntry) error {
	model := models.AutoEntryModelFromDomain(entry)
	if err := saveVersioned(r.db.WithContext(ctx), model, entry.ID); err != nil {
		return err
	}
	entry.Version = model.Version
	return nil
}
