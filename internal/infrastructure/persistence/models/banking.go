package models

import (
	"time"

	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankConnectionModel is the persistence model for BankConnection
type BankConnectionModel struct {
	TenantAggregateModel
	Provider             string `gorm:"type:varchar(32);not null"`
	Label                string `gorm:"type:varchar(255)"`
	EncryptedCredentials []byte `gorm:"type:bytea;not null"`
	Status               string `gorm:"type:varchar(16);not null;index"`
	LastSyncAt           *time.Time
	LastSyncStatus       string `gorm:"type:varchar(16);not null"`
	LastSyncError        string `gorm:"type:text"`
}

// TableName returns the table name for BankConnectionModel
func (BankConnectionModel) TableName() string { return "bank_connections" }

// ToDomain converts the model to a domain BankConnection
func (m *BankConnectionModel) ToDomain() *banking.BankConnection {
	c := &banking.BankConnection{
		Provider:             m.Provider,
		Label:                m.Label,
		EncryptedCredentials: m.EncryptedCredentials,
		Status:               banking.ConnectionStatus(m.Status),
		LastSyncAt:           m.LastSyncAt,
		LastSyncStatus:       banking.SyncStatus(m.LastSyncStatus),
		LastSyncError:        m.LastSyncError,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// BankConnectionModelFromDomain converts a domain BankConnection to the model
func BankConnectionModelFromDomain(c *banking.BankConnection) *BankConnectionModel {
	m := &BankConnectionModel{
		Provider:             c.Provider,
		Label:                c.Label,
		EncryptedCredentials: c.EncryptedCredentials,
		Status:               string(c.Status),
		LastSyncAt:           c.LastSyncAt,
		LastSyncStatus:       string(c.LastSyncStatus),
		LastSyncError:        c.LastSyncError,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// BankAccountModel is the persistence model for SyncedBankAccount
type BankAccountModel struct {
	TenantAggregateModel
	ConnectionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExternalID   string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_bank_accounts_conn_ext,priority:2"`
	Name         string          `gorm:"type:varchar(255)"`
	IBAN         string          `gorm:"type:varchar(34);column:iban"`
	Balance      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Currency     string          `gorm:"type:varchar(3);not null;default:'EUR'"`
	LastSyncedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for BankAccountModel
func (BankAccountModel) TableName() string { return "bank_accounts" }

// ToDomain converts the model to a domain SyncedBankAccount
func (m *BankAccountModel) ToDomain() *banking.SyncedBankAccount {
	a := &banking.SyncedBankAccount{
		ConnectionID: m.ConnectionID,
		ExternalID:   m.ExternalID,
		Name:         m.Name,
		IBAN:         m.IBAN,
		Balance:      m.Balance,
		Currency:     m.Currency,
		LastSyncedAt: m.LastSyncedAt,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// BankAccountModelFromDomain converts a domain SyncedBankAccount to the model
func BankAccountModelFromDomain(a *banking.SyncedBankAccount) *BankAccountModel {
	m := &BankAccountModel{
		ConnectionID: a.ConnectionID,
		ExternalID:   a.ExternalID,
		Name:         a.Name,
		IBAN:         a.IBAN,
		Balance:      a.Balance,
		Currency:     a.Currency,
		LastSyncedAt: a.LastSyncedAt,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}

// BankTransactionModel is the persistence model for SyncedTransaction
type BankTransactionModel struct {
	TenantAggregateModel
	AccountID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bank_txs_account_ext,priority:1"`
	ExternalID        string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_bank_txs_account_ext,priority:2"`
	TransactionDate   time.Time       `gorm:"not null;index"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Direction         string          `gorm:"type:varchar(8);not null"`
	Label             string          `gorm:"type:varchar(255)"`
	Reference         string          `gorm:"type:varchar(64)"`
	Counterparty      string          `gorm:"type:varchar(255)"`
	Status            string          `gorm:"type:varchar(16);not null;index"`
	MatchedDocumentID *uuid.UUID      `gorm:"type:uuid;index"`
	MatchConfidence   float64
	MatchedBy         string `gorm:"type:varchar(8)"`
}

// TableName returns the table name for BankTransactionModel
func (BankTransactionModel) TableName() string { return "bank_transactions" }

// ToDomain converts the model to a domain SyncedTransaction
func (m *BankTransactionModel) ToDomain() *banking.SyncedTransaction {
	t := &banking.SyncedTransaction{
		AccountID:         m.AccountID,
		ExternalID:        m.ExternalID,
		TransactionDate:   m.TransactionDate,
		Amount:            m.Amount,
		Direction:         banking.TransactionDirection(m.Direction),
		Label:             m.Label,
		Reference:         m.Reference,
		Counterparty:      m.Counterparty,
		Status:            banking.ReconciliationStatus(m.Status),
		MatchedDocumentID: m.MatchedDocumentID,
		MatchConfidence:   m.MatchConfidence,
		MatchedBy:         banking.MatchMode(m.MatchedBy),
	}
	m.PopulateTenantAggregateRoot(&t.TenantAggregateRoot)
	return t
}

// BankTransactionModelFromDomain converts a domain SyncedTransaction to the model
func BankTransactionModelFromDomain(t *banking.SyncedTransaction) *BankTransactionModel {
	m := &BankTransactionModel{
		AccountID:         t.AccountID,
		ExternalID:        t.ExternalID,
		TransactionDate:   t.TransactionDate,
		Amount:            t.Amount,
		Direction:         string(t.Direction),
		Label:             t.Label,
		Reference:         t.Reference,
		Counterparty:      t.Counterparty,
		Status:            string(t.Status),
		MatchedDocumentID: t.MatchedDocumentID,
		MatchConfidence:   t.MatchConfidence,
		MatchedBy:         string(t.MatchedBy),
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}

// ReconciliationRuleModel is the persistence model for ReconciliationRule
type ReconciliationRuleModel struct {
	TenantAggregateModel
	Name          string           `gorm:"type:varchar(255);not null"`
	PatternKind   string           `gorm:"type:varchar(16);not null"`
	Pattern       string           `gorm:"type:varchar(512);not null"`
	MinAmount     *decimal.Decimal `gorm:"type:decimal(15,2)"`
	MaxAmount     *decimal.Decimal `gorm:"type:decimal(15,2)"`
	TargetAccount string           `gorm:"type:varchar(16)"`
	TargetDocType string           `gorm:"type:varchar(32)"`
	Priority      int              `gorm:"not null;default:0;index"`
	Active        bool             `gorm:"not null;default:true;index"`
}

// TableName returns the table name for ReconciliationRuleModel
func (ReconciliationRuleModel) TableName() string { return "reconciliation_rules" }

// ToDomain converts the model to a domain ReconciliationRule
func (m *ReconciliationRuleModel) ToDomain() *banking.ReconciliationRule {
	r := &banking.ReconciliationRule{
		Name:          m.Name,
		PatternKind:   banking.RulePatternKind(m.PatternKind),
		Pattern:       m.Pattern,
		MinAmount:     m.MinAmount,
		MaxAmount:     m.MaxAmount,
		TargetAccount: m.TargetAccount,
		TargetDocType: m.TargetDocType,
		Priority:      m.Priority,
		Active:        m.Active,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// ReconciliationRuleModelFromDomain converts a domain ReconciliationRule to the model
func ReconciliationRuleModelFromDomain(r *banking.ReconciliationRule) *ReconciliationRuleModel {
	m := &ReconciliationRuleModel{
		Name:          r.Name,
		PatternKind:   string(r.PatternKind),
		Pattern:       r.Pattern,
		MinAmount:     r.MinAmount,
		MaxAmount:     r.MaxAmount,
		TargetAccount: r.TargetAccount,
		TargetDocType: r.TargetDocType,
		Priority:      r.Priority,
		Active:        r.Active,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// ReconciliationHistoryModel is the persistence model for ReconciliationHistory
type ReconciliationHistoryModel struct {
	TenantAggregateModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	DocumentID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Mode          string    `gorm:"type:varchar(8);not null"`
	Confidence    float64
	Action        string     `gorm:"type:varchar(16);not null"`
	PerformedBy   *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for ReconciliationHistoryModel
func (ReconciliationHistoryModel) TableName() string { return "reconciliation_history" }

// ToDomain converts the model to a domain ReconciliationHistory
func (m *ReconciliationHistoryModel) ToDomain() *banking.ReconciliationHistory {
	h := &banking.ReconciliationHistory{
		TransactionID: m.TransactionID,
		DocumentID:    m.DocumentID,
		Mode:          banking.MatchMode(m.Mode),
		Confidence:    m.Confidence,
		Action:        m.Action,
		PerformedBy:   m.PerformedBy,
	}
	m.PopulateTenantAggregateRoot(&h.TenantAggregateRoot)
	return h
}

// ReconciliationHistoryModelFromDomain converts a domain ReconciliationHistory to the model
func ReconciliationHistoryModelFromDomain(h *banking.ReconciliationHistory) *ReconciliationHistoryModel {
	m := &ReconciliationHistoryModel{
		TransactionID: h.TransactionID,
		DocumentID:    h.DocumentID,
		Mode:          string(h.Mode),
		Confidence:    h.Confidence,
		Action:        h.Action,
		PerformedBy:   h.PerformedBy,
	}
	m.FromDomainTenantAggregateRoot(h.TenantAggregateRoot)
	return m
}
