package banking

import (
	"context"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SyncService manages bank connections and pulls account data.
type SyncService struct {
	connRepo  banking.ConnectionRepository
	accRepo   banking.AccountRepository
	txRepo    banking.TransactionRepository
	alertRepo accounting.AlertRepository
	provider  BankProvider
	sealer    CredentialSealer
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	connRepo banking.ConnectionRepository,
	accRepo banking.AccountRepository,
	txRepo banking.TransactionRepository,
	alertRepo accounting.AlertRepository,
	provider BankProvider,
	sealer CredentialSealer,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		connRepo:  connRepo,
		accRepo:   accRepo,
		txRepo:    txRepo,
		alertRepo: alertRepo,
		provider:  provider,
		sealer:    sealer,
		logger:    logger,
	}
}

// CreateConnectionRequest represents a request to connect a bank
type CreateConnectionRequest struct {
	Label       string `json:"label" binding:"required"`
	Credentials string `json:"credentials" binding:"required"`
	CreatedBy   *uuid.UUID
}

// ConnectionResponse represents a bank connection in API responses.
// Credentials never appear in any response.
type ConnectionResponse struct {
	ID             uuid.UUID  `json:"id"`
	Provider       string     `json:"provider"`
	Label          string     `json:"label"`
	Status         string     `json:"status"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	LastSyncStatus string     `json:"last_sync_status"`
	LastSyncError  string     `json:"last_sync_error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AccountResponse represents a synced bank account in API responses
type AccountResponse struct {
	ID           uuid.UUID       `json:"id"`
	ConnectionID uuid.UUID       `json:"connection_id"`
	Name         string          `json:"name"`
	IBAN         string          `json:"iban,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	Currency     string          `json:"currency"`
	LastSyncedAt time.Time       `json:"last_synced_at"`
}

// SyncResultResponse summarizes one sync run
type SyncResultResponse struct {
	ConnectionID    uuid.UUID `json:"connection_id"`
	AccountsSynced  int       `json:"accounts_synced"`
	NewTransactions int       `json:"new_transactions"`
}

// CreateConnection seals the credentials and registers the connection
func (s *SyncService) CreateConnection(ctx context.Context, tenantID uuid.UUID, req CreateConnectionRequest) (*ConnectionResponse, error) {
	sealed, err := s.sealer.Seal([]byte(req.Credentials))
	if err != nil {
		return nil, err
	}
	conn, err := banking.NewBankConnection(tenantID, s.provider.Name(), req.Label, sealed)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		conn.CreatedBy = req.CreatedBy
	}
	if err := s.connRepo.Save(ctx, conn); err != nil {
		return nil, err
	}
	return toConnectionResponse(conn), nil
}

// ListConnections lists the tenant's bank connections
func (s *SyncService) ListConnections(ctx context.Context, tenantID uuid.UUID) ([]ConnectionResponse, error) {
	conns, err := s.connRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]ConnectionResponse, len(conns))
	for i := range conns {
		responses[i] = *toConnectionResponse(&conns[i])
	}
	return responses, nil
}

// RevokeConnection disables a connection
func (s *SyncService) RevokeConnection(ctx context.Context, tenantID, id uuid.UUID) (*ConnectionResponse, error) {
	conn, err := s.connRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := conn.Revoke(); err != nil {
		return nil, err
	}
	if err := s.connRepo.Save(ctx, conn); err != nil {
		return nil, err
	}
	return toConnectionResponse(conn), nil
}

// ListAccounts lists the tenant's synced bank accounts
func (s *SyncService) ListAccounts(ctx context.Context, tenantID uuid.UUID) ([]AccountResponse, error) {
	accounts, err := s.accRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *toAccountResponse(&accounts[i])
	}
	return responses, nil
}

// Sync pulls accounts and transactions from the provider. A provider
// failure marks the connection ERROR and raises an alert; there is no
// retry, the next attempt is user-triggered.
func (s *SyncService) Sync(ctx context.Context, tenantID, connectionID uuid.UUID) (*SyncResultResponse, error) {
	conn, err := s.connRepo.FindByIDForTenant(ctx, tenantID, connectionID)
	if err != nil {
		return nil, err
	}
	if !conn.CanSync() {
		return nil, shared.ErrInvalidState.WithDetail("status", string(conn.Status))
	}

	credentials, err := s.sealer.Open(conn.EncryptedCredentials)
	if err != nil {
		return nil, err
	}

	var since time.Time
	if conn.LastSyncAt != nil {
		since = *conn.LastSyncAt
	}

	providerAccounts, err := s.provider.FetchAccounts(ctx, credentials)
	if err != nil {
		return nil, s.failSync(ctx, conn, err)
	}

	result := &SyncResultResponse{ConnectionID: conn.ID}
	for _, pa := range providerAccounts {
		account, err := s.upsertAccount(ctx, conn, pa)
		if err != nil {
			return nil, err
		}
		result.AccountsSynced++

		providerTxs, err := s.provider.FetchTransactions(ctx, credentials, pa.ExternalID, since)
		if err != nil {
			return nil, s.failSync(ctx, conn, err)
		}
		for _, pt := range providerTxs {
			created, err := s.upsertTransaction(ctx, account, pt)
			if err != nil {
				return nil, err
			}
			if created {
				result.NewTransactions++
			}
		}
	}

	conn.MarkSynced()
	if err := s.connRepo.Save(ctx, conn); err != nil {
		return nil, err
	}
	s.logger.Info("bank sync completed",
		zap.String("connection_id", conn.ID.String()),
		zap.Int("accounts", result.AccountsSynced),
		zap.Int("new_transactions", result.NewTransactions))
	return result, nil
}

func (s *SyncService) upsertAccount(ctx context.Context, conn *banking.BankConnection, pa ProviderAccount) (*banking.SyncedBankAccount, error) {
	account, err := s.accRepo.FindByExternalID(ctx, conn.TenantID, conn.ID, pa.ExternalID)
	if err != nil {
		account, err = banking.NewSyncedBankAccount(conn.TenantID, conn.ID, pa.ExternalID, pa.Name, pa.IBAN)
		if err != nil {
			return nil, err
		}
	}
	account.UpdateBalance(pa.Balance, pa.Currency)
	if err := s.accRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// upsertTransaction is keyed on (account, external id) so re-pulling an
// overlapping window never duplicates rows.
func (s *SyncService) upsertTransaction(ctx context.Context, account *banking.SyncedBankAccount, pt ProviderTransaction) (bool, error) {
	if existing, err := s.txRepo.FindByAccountAndExternalID(ctx, account.TenantID, account.ID, pt.ExternalID); err == nil && existing != nil {
		return false, nil
	}
	tx, err := banking.NewSyncedTransaction(
		account.TenantID, account.ID, pt.ExternalID, pt.Date,
		pt.Amount, banking.TransactionDirection(pt.Direction),
		pt.Label, pt.Reference, pt.Counterparty,
	)
	if err != nil {
		return false, err
	}
	if err := s.txRepo.Save(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SyncService) failSync(ctx context.Context, conn *banking.BankConnection, cause error) error {
	conn.MarkSyncFailed(cause.Error())
	if err := s.connRepo.Save(ctx, conn); err != nil {
		s.logger.Error("failed connection state could not be saved",
			zap.String("connection_id", conn.ID.String()), zap.Error(err))
	}
	alert, err := accounting.NewAccountingAlert(conn.TenantID, accounting.AlertBankSyncFailed,
		accounting.SeverityCritical, "Bank synchronization failed", cause.Error())
	if err == nil {
		alert.ForEntity("bank_connection", conn.ID)
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			s.logger.Warn("bank sync alert could not be saved",
				zap.String("connection_id", conn.ID.String()), zap.Error(err))
		}
	}
	return shared.NewDomainError("BANK_SYNC_FAILED", "Bank synchronization failed: "+cause.Error())
}

func toConnectionResponse(c *banking.BankConnection) *ConnectionResponse {
	return &ConnectionResponse{
		ID:             c.ID,
		Provider:       c.Provider,
		Label:          c.Label,
		Status:         string(c.Status),
		LastSyncAt:     c.LastSyncAt,
		LastSyncStatus: string(c.LastSyncStatus),
		LastSyncError:  c.LastSyncError,
		CreatedAt:      c.CreatedAt,
	}
}

func toAccountResponse(a *banking.SyncedBankAccount) *AccountResponse {
	return &AccountResponse{
		ID:           a.ID,
		ConnectionID: a.ConnectionID,
		Name:         a.Name,
		IBAN:         a.IBAN,
		Balance:      a.Balance,
		Currency:     a.Currency,
		LastSyncedAt: a.LastSyncedAt,
	}
}
