package banking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransactionFilter defines filtering options for transaction list queries
type TransactionFilter struct {
	AccountID *uuid.UUID
	Status    ReconciliationStatus
	From      *time.Time
	To        *time.Time
	Search    string
	Page      int
	PageSize  int
}

// ConnectionRepository persists bank connections
type ConnectionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BankConnection, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]BankConnection, error)
	Save(ctx context.Context, connection *BankConnection) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AccountRepository persists synced bank accounts
type AccountRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SyncedBankAccount, error)
	FindByConnection(ctx context.Context, tenantID, connectionID uuid.UUID) ([]SyncedBankAccount, error)
	FindByExternalID(ctx context.Context, tenantID, connectionID uuid.UUID, externalID string) (*SyncedBankAccount, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]SyncedBankAccount, error)
	Save(ctx context.Context, account *SyncedBankAccount) error
}

// TransactionRepository persists synced transactions. Sync upserts on
// (account, external ID) so a re-pull never duplicates rows.
type TransactionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SyncedTransaction, error)
	FindByAccountAndExternalID(ctx context.Context, tenantID, accountID uuid.UUID, externalID string) (*SyncedTransaction, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter TransactionFilter) ([]SyncedTransaction, int64, error)
	FindUnmatched(ctx context.Context, tenantID uuid.UUID) ([]SyncedTransaction, error)
	Save(ctx context.Context, tx *SyncedTransaction) error
}

// RuleRepository persists reconciliation rules. FindActiveForTenant returns
// rules ordered by priority, highest first.
type RuleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ReconciliationRule, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) ([]ReconciliationRule, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]ReconciliationRule, error)
	Save(ctx context.Context, rule *ReconciliationRule) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// HistoryRepository persists the reconciliation audit trail
type HistoryRepository interface {
	FindForTransaction(ctx context.Context, tenantID, transactionID uuid.UUID) ([]ReconciliationHistory, error)
	Save(ctx context.Context, record *ReconciliationHistory) error
}
