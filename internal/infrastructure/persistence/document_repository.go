package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByIDForTenant finds a document by ID for a specific tenant
func (r *GormDocumentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AccountingDocument, error) {
	var model models.DocumentModel
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

// FindAllForTenant finds documents for a tenant with filtering and pagination
func (r *GormDocumentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.DocumentFilter) ([]accounting.AccountingDocument, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	var documentModels []models.DocumentModel
	if err := query.Find(&documentModels).Error; err != nil {
		return nil, 0, err
	}
	documents := make([]accounting.AccountingDocument, len(documentModels))
	for i, model := range documentModels {
		documents[i] = *model.ToDomain()
	}
	return documents, total, nil
}

// FindByFileHash finds a document by its content hash for duplicate detection
func (r *GormDocumentRepository) FindByFileHash(ctx context.Context, tenantID uuid.UUID, fileHash string) (*accounting.AccountingDocument, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND file_hash = ?", tenantID, fileHash).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenForReconciliation finds documents still eligible for bank matching.
// Validated and accounted documents stay open because payment usually lands
// after posting.
func (r *GormDocumentRepository) FindOpenForReconciliation(ctx context.Context, tenantID uuid.UUID) ([]accounting.AccountingDocument, error) {
	var documentModels []models.DocumentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, []string{
			string(accounting.DocumentStatusPendingValidation),
			string(accounting.DocumentStatusValidated),
			string(accounting.DocumentStatusAccounted),
		}).
		Order("document_date DESC").
		Find(&documentModels).Error; err != nil {
		return nil, err
	}
	documents := make([]accounting.AccountingDocument, len(documentModels))
	for i, model := range documentModels {
		documents[i] = *model.ToDomain()
	}
	return documents, nil
}

// GenerateDocumentNumber generates a new document number for the tenant
func (r *GormDocumentRepository) GenerateDocumentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var count int64
	yearMonth := time.Now().Format("200601")

	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("tenant_id = ? AND document_number LIKE ?", tenantID, fmt.Sprintf("DOC-%s-%%", yearMonth)).
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("DOC-%s-%05d", yearMonth, count+1), nil
}

// Save creates or updates a document, guarded by the version column
func (r *GormDocumentRepository) Save(ctx context.Context, doc *accounting.AccountingDocument) error {
	model := models.DocumentModelFromDomain(doc)
	if err := saveVersioned(r.db.WithContext(ctx), model, doc.ID); err != nil {
		return err
	}
	doc.Version = model.Version
	return nil
}

// Delete removes a document for a tenant
func (r *GormDocumentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.DocumentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter conditions to query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter accounting.DocumentFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DocumentType != "" {
		query = query.Where("document_type = ?", filter.DocumentType)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"document_number LIKE ? OR partner_name LIKE ? OR invoice_number LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}
	return query
}
