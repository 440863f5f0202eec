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

// GormBankAccountRepository implements AccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// FindByIDForTenant finds a bank account by ID for a specific tenant
func (r *GormBankAccountRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.SyncedBankAccount, error) {
	var model models.BankAccountModel
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

// FindByConnection finds all accounts pulled through a connection
func (r *GormBankAccountRepository) FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID) ([]banking.SyncedBankAccount, error) {
	var accountModels []models.BankAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND connection_id = ?", tenantID, connectionID).
		Order("name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]banking.SyncedBankAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindByExternalID finds an account by its provider-side identifier
func (r *GormBankAccountRepository) FindByExternalID(ctx context.Context, tenantID, connectionID uuid.UUID, externalID string) (*banking.SyncedBankAccount, error) {
	var model models.BankAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND connection_id = ? AND external_id = ?", tenantID, connectionID, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all bank accounts for a tenant
func (r *GormBankAccountRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]banking.SyncedBankAccount, error) {
	var accountModels []models.BankAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]banking.SyncedBankAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a bank account
func (r *GormBankAccountRepository) Save(ctx context.Context, account *banking.SyncedBankAccount) error {
	model := models.BankAccountModelFromDomain(account)
	if err := saveVersioned(r.db.WithContext(ctx), model, account.ID); err != nil {
		return err
	}
	account.Version = model.Version
	return nil
}
