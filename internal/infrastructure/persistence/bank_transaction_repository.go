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

// GormBankTransactionRepository implements TransactionRepository using GORM
type GormBankTransactionRepository struct {
	db *gorm.DB
}

// NewGormBankTransactionRepository creates a new GormBankTransactionRepository
func NewGormBankTransactionRepository(db *gorm.DB) *GormBankTransactionRepository {
	return &GormBankTransactionRepository{db: db}
}

// FindByIDForTenant finds a transaction by ID for a specific tenant
func (r *GormBankTransactionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*banking.SyncedTransaction, error) {
	var model models.BankTransactionModel
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

// FindByAccountAndExternalID finds a transaction by its upsert key
func (r *GormBankTransactionRepository) FindByAccountAndExternalID(ctx context.Context, tenantID, accountID uuid.UUID, externalID string) (*banking.SyncedTransaction, error) {
	var model models.BankTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND account_id = ? AND external_id = ?", tenantID, accountID, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds transactions for a tenant with filtering and pagination
func (r *GormBankTransactionRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter banking.TransactionFilter) ([]banking.SyncedTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BankTransactionModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date <= ?", *filter.To)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"label LIKE ? OR reference LIKE ? OR counterparty LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("transaction_date DESC")
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	var transactionModels []models.BankTransactionModel
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}
	transactions := make([]banking.SyncedTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, total, nil
}

// FindUnmatched finds transactions waiting for reconciliation, oldest first
func (r *GormBankTransactionRepository) FindUnmatched(ctx context.Context, tenantID uuid.UUID) ([]banking.SyncedTransaction, error) {
	var transactionModels []models.BankTransactionModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, banking.ReconciliationUnmatched).
		Order("transaction_date ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}
	transactions := make([]banking.SyncedTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, nil
}

// Save creates or updates a transaction
func (r *GormBankTransactionRepository) Save(ctx context.Context, tx *banking.SyncedTransaction) error {
	model := models.BankTransactionModelFromDomain(tx)
	if err := saveVersioned(r.db.WithContext(ctx), model, tx.ID); err != nil {
		return err
	}
	tx.Version = model.Version
	return nil
}
