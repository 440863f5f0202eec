package persistence

import (
	"context"
	"errors"

	"github.com/azalscore/backend/internal/domain/budget"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBudgetLineRepository implements LineRepository using GORM
type GormBudgetLineRepository struct {
	db *gorm.DB
}

// NewGormBudgetLineRepository creates a new GormBudgetLineRepository
func NewGormBudgetLineRepository(db *gorm.DB) *GormBudgetLineRepository {
	return &GormBudgetLineRepository{db: db}
}

// FindByIDForTenant finds a budget line by ID for a specific tenant
func (r *GormBudgetLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*budget.BudgetLine, error) {
	var model models.BudgetLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByYearForTenant finds all budget lines for a fiscal year
func (r *GormBudgetLineRepository) FindByYearForTenant(ctx context.Context, tenantID uuid.UUID, fiscalYear int) ([]budget.BudgetLine, error) {
	var lineModels []models.BudgetLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND fiscal_year = ?", tenantID, fiscalYear).
		Order("account_code ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	lines := make([]budget.BudgetLine, len(lineModels))
	for i, model := range lineModels {
		line, err := model.ToDomain()
		if err != nil {
			return nil, err
		}
		lines[i] = *line
	}
	return lines, nil
}

// FindByYearAndAccount finds a budget line by fiscal year and account code
func (r *GormBudgetLineRepository) FindByYearAndAccount(ctx context.Context, tenantID uuid.UUID, fiscalYear int, accountCode string) (*budget.BudgetLine, error) {
	var model models.BudgetLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND fiscal_year = ? AND account_code = ?", tenantID, fiscalYear, accountCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Save creates or updates a budget line, guarded by the version column
func (r *GormBudgetLineRepository) Save(ctx context.Context, line *budget.BudgetLine) error {
	model, err := models.BudgetLineModelFromDomain(line)
	if err != nil {
		return err
	}
	if err := saveVersioned(r.db.WithContext(ctx), model, line.ID); err != nil {
		return err
	}
	line.Version = model.Version
	return nil
}

// Delete removes a budget line for a tenant
func (r *GormBudgetLineRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.BudgetLineModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
