package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentStats summarizes the document pipeline
type DocumentStats struct {
	ByStatus       map[string]int64
	TotalThisMonth int64
	ErrorCount     int64
}

// ValidationQueueStats summarizes what is waiting on a human
type ValidationQueueStats struct {
	PendingDocuments int64
	PendingEntries   int64
	OldestPendingAt  *time.Time
}

// ClassificationStats summarizes how the classifier is doing
type ClassificationStats struct {
	Total           int64
	AutoValidated   int64
	Corrected       int64
	AverageScore    float64
	CorrectionRate  float64
	AutoValidatedPc float64
}

// ReconciliationStats summarizes bank matching
type ReconciliationStats struct {
	Unmatched int64
	Pending   int64
	Matched   int64
	Ignored   int64
	MatchRate float64
}

// AccountBalance is one bank account balance snapshot
type AccountBalance struct {
	AccountID uuid.UUID
	Name      string
	IBAN      string
	Balance   decimal.Decimal
	Currency  string
}

// CashPosition aggregates synced bank balances
type CashPosition struct {
	Accounts []AccountBalance
	Total    decimal.Decimal
	AsOf     time.Time
}

// InvoiceSummary aggregates open invoice amounts for the period
type InvoiceSummary struct {
	ReceivedTotal decimal.Decimal
	SentTotal     decimal.Decimal
	OverdueCount  int64
	DueSoonCount  int64
}

// DashboardRepository reads aggregated figures straight from the store.
// These are read models; nothing here mutates state.
type DashboardRepository interface {
	DocumentStats(ctx context.Context, tenantID uuid.UUID) (*DocumentStats, error)
	ValidationQueue(ctx context.Context, tenantID uuid.UUID) (*ValidationQueueStats, error)
	ClassificationStats(ctx context.Context, tenantID uuid.UUID) (*ClassificationStats, error)
	ReconciliationStats(ctx context.Context, tenantID uuid.UUID) (*ReconciliationStats, error)
	CashPosition(ctx context.Context, tenantID uuid.UUID) (*CashPosition, error)
	InvoiceSummary(ctx context.Context, tenantID uuid.UUID) (*InvoiceSummary, error)
	ActiveAlertCount(ctx context.Context, tenantID uuid.UUID, role string) (int64, error)
}
