package banking

import (
	"time"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationStatus tracks how far a transaction is matched
type ReconciliationStatus string

const (
	ReconciliationUnmatched ReconciliationStatus = "UNMATCHED"
	ReconciliationPending   ReconciliationStatus = "PENDING"
	ReconciliationMatched   ReconciliationStatus = "MATCHED"
	ReconciliationIgnored   ReconciliationStatus = "IGNORED"
)

// IsValid checks if the status is a valid ReconciliationStatus
func (s ReconciliationStatus) IsValid() bool {
	switch s {
	case ReconciliationUnmatched, ReconciliationPending, ReconciliationMatched, ReconciliationIgnored:
		return true
	}
	return false
}

// MatchMode records who produced a match
type MatchMode string

const (
	MatchModeAuto   MatchMode = "AUTO"
	MatchModeManual MatchMode = "MANUAL"
	MatchModeRule   MatchMode = "RULE"
)

// TransactionDirection is the money flow direction
type TransactionDirection string

const (
	DirectionDebit  TransactionDirection = "DEBIT"  // money out
	DirectionCredit TransactionDirection = "CREDIT" // money in
)

// SyncedTransaction is one bank transaction pulled from the provider.
// The (AccountID, ExternalID) pair is the upsert key: re-pulling the same
// window is idempotent, there is no stream cursor.
type SyncedTransaction struct {
	shared.TenantAggregateRoot
	AccountID         uuid.UUID
	ExternalID        string
	TransactionDate   time.Time
	Amount            decimal.Decimal
	Direction         TransactionDirection
	Label             string
	Reference         string
	Counterparty      string
	Status            ReconciliationStatus
	MatchedDocumentID *uuid.UUID
	MatchConfidence   float64
	MatchedBy         MatchMode
}

// NewSyncedTransaction creates an unmatched transaction
func NewSyncedTransaction(
	tenantID, accountID uuid.UUID,
	externalID string,
	date time.Time,
	amount decimal.Decimal,
	direction TransactionDirection,
	label, reference, counterparty string,
) (*SyncedTransaction, error) {
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "External transaction ID is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transaction amount must be non-negative; use Direction for the sign")
	}
	return &SyncedTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AccountID:           accountID,
		ExternalID:          externalID,
		TransactionDate:     date,
		Amount:              amount,
		Direction:           direction,
		Label:               label,
		Reference:           reference,
		Counterparty:        counterparty,
		Status:              ReconciliationUnmatched,
	}, nil
}

// Match links the transaction to a document
func (t *SyncedTransaction) Match(documentID uuid.UUID, confidence float64, mode MatchMode) error {
	if t.Status == ReconciliationMatched {
		return shared.ErrInvalidState.WithDetail("status", string(t.Status))
	}
	t.Status = ReconciliationMatched
	t.MatchedDocumentID = &documentID
	t.MatchConfidence = confidence
	t.MatchedBy = mode
	return nil
}

// MarkPending records a partial match that needs human confirmation
func (t *SyncedTransaction) MarkPending(documentID uuid.UUID, confidence float64) error {
	if t.Status != ReconciliationUnmatched && t.Status != ReconciliationPending {
		return shared.ErrInvalidState.WithDetail("status", string(t.Status))
	}
	t.Status = ReconciliationPending
	t.MatchedDocumentID = &documentID
	t.MatchConfidence = confidence
	t.MatchedBy = MatchModeAuto
	return nil
}

// Unmatch reverts the transaction to unmatched
func (t *SyncedTransaction) Unmatch() error {
	if t.Status == ReconciliationUnmatched {
		return shared.ErrInvalidState.WithDetail("status", string(t.Status))
	}
	t.Status = ReconciliationUnmatched
	t.MatchedDocumentID = nil
	t.MatchConfidence = 0
	t.MatchedBy = ""
	return nil
}

// Ignore excludes the transaction from reconciliation
func (t *SyncedTransaction) Ignore() error {
	if t.Status == ReconciliationMatched {
		return shared.ErrInvalidState.WithDetail("status", string(t.Status))
	}
	t.Status = ReconciliationIgnored
	return nil
}

// ReconciliationHistory records one transaction-to-document match or unmatch
type ReconciliationHistory struct {
	shared.TenantAggregateRoot
	TransactionID uuid.UUID
	DocumentID    uuid.UUID
	Mode          MatchMode
	Confidence    float64
	Action        string // MATCHED or UNMATCHED
	PerformedBy   *uuid.UUID
}

// NewReconciliationHistory records a reconciliation action
func NewReconciliationHistory(
	tenantID, transactionID, documentID uuid.UUID,
	mode MatchMode,
	confidence float64,
	action string,
	performedBy *uuid.UUID,
) *ReconciliationHistory {
	return &ReconciliationHistory{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TransactionID:       transactionID,
		DocumentID:          documentID,
		Mode:                mode,
		Confidence:          confidence,
		Action:              action,
		PerformedBy:         performedBy,
	}
}
