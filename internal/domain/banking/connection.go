package banking

import (
	"time"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConnectionStatus is the health state of a bank connection
type ConnectionStatus string

const (
	ConnectionStatusActive  ConnectionStatus = "ACTIVE"
	ConnectionStatusError   ConnectionStatus = "ERROR"
	ConnectionStatusRevoked ConnectionStatus = "REVOKED"
)

// IsValid checks if the status is a valid ConnectionStatus
func (s ConnectionStatus) IsValid() bool {
	switch s {
	case ConnectionStatusActive, ConnectionStatusError, ConnectionStatusRevoked:
		return true
	}
	return false
}

// SyncStatus is the outcome of the last pull
type SyncStatus string

const (
	SyncStatusNever   SyncStatus = "NEVER"
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusFailed  SyncStatus = "FAILED"
)

// BankConnection holds the pull-mode integration state for one bank.
// Credentials are sealed by the crypto collaborator before they reach this
// aggregate; the domain never sees them in clear.
type BankConnection struct {
	shared.TenantAggregateRoot
	Provider             string
	Label                string
	EncryptedCredentials []byte
	Status               ConnectionStatus
	LastSyncAt           *time.Time
	LastSyncStatus       SyncStatus
	LastSyncError        string
}

// NewBankConnection creates an active connection with sealed credentials
func NewBankConnection(tenantID uuid.UUID, provider, label string, encryptedCredentials []byte) (*BankConnection, error) {
	if provider == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bank provider is required")
	}
	if len(encryptedCredentials) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Bank credentials are required")
	}
	return &BankConnection{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		Provider:             provider,
		Label:                label,
		EncryptedCredentials: encryptedCredentials,
		Status:               ConnectionStatusActive,
		LastSyncStatus:       SyncStatusNever,
	}, nil
}

// MarkSynced records a successful pull
func (c *BankConnection) MarkSynced() {
	now := time.Now()
	c.LastSyncAt = &now
	c.LastSyncStatus = SyncStatusSuccess
	c.LastSyncError = ""
	c.Status = ConnectionStatusActive
}

// MarkSyncFailed records a failed pull. There is no retry machinery: the
// failure is surfaced through an alert and the next sync is user-triggered.
func (c *BankConnection) MarkSyncFailed(reason string) {
	now := time.Now()
	c.LastSyncAt = &now
	c.LastSyncStatus = SyncStatusFailed
	c.LastSyncError = reason
	c.Status = ConnectionStatusError
}

// Revoke disables the connection
func (c *BankConnection) Revoke() error {
	if c.Status == ConnectionStatusRevoked {
		return shared.ErrInvalidState.WithDetail("status", string(c.Status))
	}
	c.Status = ConnectionStatusRevoked
	return nil
}

// CanSync reports whether a pull may be attempted
func (c *BankConnection) CanSync() bool {
	return c.Status != ConnectionStatusRevoked
}

// SyncedBankAccount is a bank account snapshot pulled from the provider
type SyncedBankAccount struct {
	shared.TenantAggregateRoot
	ConnectionID uuid.UUID
	ExternalID   string
	Name         string
	IBAN         string
	Balance      decimal.Decimal
	Currency     string
	LastSyncedAt time.Time
}

// NewSyncedBankAccount creates an account snapshot
func NewSyncedBankAccount(tenantID, connectionID uuid.UUID, externalID, name, iban string) (*SyncedBankAccount, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "External account ID is required")
	}
	return &SyncedBankAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ConnectionID:        connectionID,
		ExternalID:          externalID,
		Name:                name,
		IBAN:                iban,
		Balance:             decimal.Zero,
		Currency:            "EUR",
		LastSyncedAt:        time.Now(),
	}, nil
}

// UpdateBalance refreshes the balance from a pull
func (a *SyncedBankAccount) UpdateBalance(balance decimal.Decimal, currency string) {
	a.Balance = balance
	if currency != "" {
		a.Currency = currency
	}
	a.LastSyncedAt = time.Now()
}
