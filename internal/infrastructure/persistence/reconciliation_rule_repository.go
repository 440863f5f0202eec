package persistence

import (
	"context"
	"errors"

	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReconciliationRuleRepository implements RuleRepository using GORM
type GormReconciliationRuleRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRuleRepository creates a new GormReconciliationRuleRepository
func NewGormReconciliationRuleRepository(db *gorm.DB) *GormReconciliationRuleRepository {
	return &GormReconciliationRuleRepository{db: db}
}

// FindByIDForTenant finds a rule by ID for a specific tenant
func (r *GormReconciliationRuleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.ReconciliationRule, error) {
	var model models.ReconciliationRuleModel
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

// FindActiveForTenant finds active rules ordered by priority, highest first
func (r *GormReconciliationRuleRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]banking.ReconciliationRule, error) {
	var ruleModels []models.ReconciliationRuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Order("priority DESC, created_at ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	rules := make([]banking.ReconciliationRule, len(ruleModels))
	for i, model := range ruleModels {
		rules[i] = *model.ToDomain()
	}
	return rules, nil
}

// FindAllForTenant finds all rules for a tenant
func (r *GormReconciliationRuleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]banking.ReconciliationRule, error) {
	var ruleModels []models.ReconciliationRuleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("priority DESC, created_at ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	rules := make([]banking.ReconciliationRule, len(ruleModels))
	for i, model := range ruleModels {
		rules[i] = *model.ToDomain()
	}
	return rules, nil
}

// Save creates or updates a rule
func (r *GormReconciliationRuleRepository) Save(ctx context.Context, rule *banking.ReconciliationRule) error {
	model := models.ReconciliationRuleModelFromDomain(rule)
	if err := saveVersioned(r.db.WithContext(ctx), model, rule.ID); err != nil {
		return err
	}
	rule.Version = model.Version
	return nil
}

// Delete removes a rule for a tenant
func (r *GormReconciliationRuleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.ReconciliationRuleModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
