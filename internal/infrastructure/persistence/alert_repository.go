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

// GormAlertRepository implements AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByIDForTenant finds an alert by ID for a specific tenant
func (r *GormAlertRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*accounting.AccountingAlert, error) {
	var model models.AlertModel
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

// FindAllForTenant finds alerts for a tenant with filtering and pagination
func (r *GormAlertRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter accounting.AlertFilter) ([]accounting.AccountingAlert, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AlertModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AlertType != "" {
		query = query.Where("alert_type = ?", filter.AlertType)
	}
	if filter.Role != "" {
		// target_roles holds a JSON array of role names. An empty array
		// means the alert targets everyone. The LIKE match keeps the query
		// portable between postgres and the sqlite used in tests.
		query = query.Where(
			"target_roles = '[]' OR target_roles LIKE ?",
			fmt.Sprintf("%%%q%%", filter.Role),
		)
	}

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

	var alertModels []models.AlertModel
	if err := query.Find(&alertModels).Error; err != nil {
		return nil, 0, err
	}
	alerts := make([]accounting.AccountingAlert, len(alertModels))
	for i, model := range alertModels {
		alerts[i] = *model.ToDomain()
	}
	return alerts, total, nil
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, alert *accounting.AccountingAlert) error {
	model := models.AlertModelFromDomain(alert)
	if err := saveVersioned(r.db.WithContext(ctx), model, alert.ID); err != nil {
		return err
	}
	alert.Version = model.Version
	return nil
}
