package report

import (
	"context"
	"fmt"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DashboardCache caches rendered dashboards for a short TTL
type DashboardCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// cacheTTL keeps dashboards fresh enough without hammering the aggregation
// queries on every page load
const cacheTTL = 30 * time.Second

// DashboardService renders the three role-specific dashboards.
type DashboardService struct {
	repo   report.DashboardRepository
	cache  DashboardCache
	logger *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository, cache DashboardCache, logger *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, cache: cache, logger: logger}
}

// CashPositionResponse is the bank balance block
type CashPositionResponse struct {
	Accounts []AccountBalanceResponse `json:"accounts"`
	Total    decimal.Decimal          `json:"total"`
	AsOf     time.Time                `json:"as_of"`
}

// AccountBalanceResponse is one account balance line
type AccountBalanceResponse struct {
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	IBAN      string          `json:"iban,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
}

// InvoiceSummaryResponse is the open invoice block
type InvoiceSummaryResponse struct {
	ReceivedTotal decimal.Decimal `json:"received_total"`
	SentTotal     decimal.Decimal `json:"sent_total"`
	OverdueCount  int64           `json:"overdue_count"`
	DueSoonCount  int64           `json:"due_soon_count"`
}

// ValidationQueueResponse is the pending work block
type ValidationQueueResponse struct {
	PendingDocuments int64      `json:"pending_documents"`
	PendingEntries   int64      `json:"pending_entries"`
	OldestPendingAt  *time.Time `json:"oldest_pending_at,omitempty"`
}

// ClassificationStatsResponse is the classifier performance block
type ClassificationStatsResponse struct {
	Total             int64   `json:"total"`
	AutoValidated     int64   `json:"auto_validated"`
	Corrected         int64   `json:"corrected"`
	AverageScore      float64 `json:"average_score"`
	CorrectionRate    float64 `json:"correction_rate"`
	AutoValidatedRate float64 `json:"auto_validated_rate"`
}

// ReconciliationStatsResponse is the bank matching block
type ReconciliationStatsResponse struct {
	Unmatched int64   `json:"unmatched"`
	Pending   int64   `json:"pending"`
	Matched   int64   `json:"matched"`
	Ignored   int64   `json:"ignored"`
	MatchRate float64 `json:"match_rate"`
}

// DocumentStatsResponse is the pipeline throughput block
type DocumentStatsResponse struct {
	ByStatus       map[string]int64 `json:"by_status"`
	TotalThisMonth int64            `json:"total_this_month"`
	ErrorCount     int64            `json:"error_count"`
}

// DirigeantDashboardResponse is the owner's view: money in, money out,
// anything urgent
type DirigeantDashboardResponse struct {
	CashPosition   CashPositionResponse   `json:"cash_position"`
	InvoiceSummary InvoiceSummaryResponse `json:"invoice_summary"`
	ActiveAlerts   int64                  `json:"active_alerts"`
}

// AssistanteDashboardResponse is the operator's view: the work queue
type AssistanteDashboardResponse struct {
	ValidationQueue ValidationQueueResponse `json:"validation_queue"`
	DocumentStats   DocumentStatsResponse   `json:"document_stats"`
	ActiveAlerts    int64                   `json:"active_alerts"`
}

// ExpertDashboardResponse is the accountant's view: quality and coverage
type ExpertDashboardResponse struct {
	ClassificationStats ClassificationStatsResponse `json:"classification_stats"`
	ReconciliationStats ReconciliationStatsResponse `json:"reconciliation_stats"`
	ValidationQueue     ValidationQueueResponse     `json:"validation_queue"`
	ActiveAlerts        int64                       `json:"active_alerts"`
}

// DirigeantDashboard renders the owner dashboard
func (s *DashboardService) DirigeantDashboard(ctx context.Context, tenantID uuid.UUID) (*DirigeantDashboardResponse, error) {
	key := cacheKey(tenantID, accounting.RoleDirigeant)
	var cached DirigeantDashboardResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	cash, err := s.repo.CashPosition(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.repo.InvoiceSummary(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	alerts, err := s.repo.ActiveAlertCount(ctx, tenantID, accounting.RoleDirigeant)
	if err != nil {
		return nil, err
	}

	resp := &DirigeantDashboardResponse{
		CashPosition:   toCashPositionResponse(cash),
		InvoiceSummary: InvoiceSummaryResponse(*invoices),
		ActiveAlerts:   alerts,
	}
	s.store(ctx, key, resp)
	return resp, nil
}

// AssistanteDashboard renders the operator dashboard
func (s *DashboardService) AssistanteDashboard(ctx context.Context, tenantID uuid.UUID) (*AssistanteDashboardResponse, error) {
	key := cacheKey(tenantID, accounting.RoleAssistante)
	var cached AssistanteDashboardResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	queue, err := s.repo.ValidationQueue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	docs, err := s.repo.DocumentStats(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	alerts, err := s.repo.ActiveAlertCount(ctx, tenantID, accounting.RoleAssistante)
	if err != nil {
		return nil, err
	}

	resp := &AssistanteDashboardResponse{
		ValidationQueue: ValidationQueueResponse(*queue),
		DocumentStats:   DocumentStatsResponse(*docs),
		ActiveAlerts:    alerts,
	}
	s.store(ctx, key, resp)
	return resp, nil
}

// ExpertDashboard renders the accountant dashboard
func (s *DashboardService) ExpertDashboard(ctx context.Context, tenantID uuid.UUID) (*ExpertDashboardResponse, error) {
	key := cacheKey(tenantID, accounting.RoleExpertComptable)
	var cached ExpertDashboardResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	classStats, err := s.repo.ClassificationStats(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	recoStats, err := s.repo.ReconciliationStats(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	queue, err := s.repo.ValidationQueue(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	alerts, err := s.repo.ActiveAlertCount(ctx, tenantID, accounting.RoleExpertComptable)
	if err != nil {
		return nil, err
	}

	resp := &ExpertDashboardResponse{
		ClassificationStats: ClassificationStatsResponse{
			Total:             classStats.Total,
			AutoValidated:     classStats.AutoValidated,
			Corrected:         classStats.Corrected,
			AverageScore:      classStats.AverageScore,
			CorrectionRate:    classStats.CorrectionRate,
			AutoValidatedRate: classStats.AutoValidatedPc,
		},
		ReconciliationStats: ReconciliationStatsResponse(*recoStats),
		ValidationQueue:     ValidationQueueResponse(*queue),
		ActiveAlerts:        alerts,
	}
	s.store(ctx, key, resp)
	return resp, nil
}

func (s *DashboardService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheKey(tenantID uuid.UUID, role string) string {
	return fmt.Sprintf("dashboard:%s:%s", tenantID, role)
}

func toCashPositionResponse(c *report.CashPosition) CashPositionResponse {
	accounts := make([]AccountBalanceResponse, len(c.Accounts))
	for i, a := range c.Accounts {
		accounts[i] = AccountBalanceResponse(a)
	}
	return CashPositionResponse{Accounts: accounts, Total: c.Total, AsOf: c.AsOf}
}
