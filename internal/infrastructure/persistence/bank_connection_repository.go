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

// GormBankConnectionRepository implements ConnectionRepository using GORM
type GormBankConnectionRepository struct {
	db *gorm.DB
}

// NewGormBankConnectionRepository creates a new GormBankConnectionRepository
func NewGormBankConnectionRepository(db *gorm.DB) *GormBankConnectionRepository {
	return &GormBankConnectionRepository{db: db}
}

// FindByIDForTenant finds a connection by ID for a specific tenant
func (r *GormBankConnectionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.BankConnection, error) {
	var model models.BankConnectionModel
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

// FindAllForTenant finds all connections for a tenant
func (r *GormBankConnectionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]banking.BankConnection, error) {
	var connectionModels []models.BankConnectionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&connectionModels).Error; err != nil {
		return nil, err
	}
	connections := make([]banking.BankConnection, len(connectionModels))
	for i, model := range connectionModels {
		connections[i] = *model.ToDomain()
	}
	return connections, nil
}

// Save creates or updates a connection
func (r *GormBankConnectionRepository) Save(ctx context.Context, connection *banking.BankConnection) error {
	model := models.BankConnectionModelFromDomain(connection)
	if err := saveVersioned(r.db.WithContext(ctx), model, connection.ID); err != nil {
		return err
	}
	connection.Version = model.Version
	return nil
}

// Delete removes a connection for a tenant
func (r *GormBankConnectionRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.BankConnectionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
