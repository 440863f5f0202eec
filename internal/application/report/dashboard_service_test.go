package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/azalscore/backend/internal/domain/report"
	"github.com/azalscore/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDashboardRepo struct {
	calls map[string]int

	cashPosition *report.CashPosition
	invoices     *report.InvoiceSummary
	queue        *report.ValidationQueueStats
	docStats     *report.DocumentStats
	classStats   *report.ClassificationStats
	recoStats    *report.ReconciliationStats
	alertCount   int64
	err          error
}

func newFakeDashboardRepo() *fakeDashboardRepo {
	asOf := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return &fakeDashboardRepo{
		calls: make(map[string]int),
		cashPosition: &report.CashPosition{
			Accounts: []report.AccountBalance{
				{
					AccountID: uuid.New(),
					Name:      "Compte courant",
					IBAN:      "FR1420041010050500013M02606",
					Balance:   decimal.RequireFromString("8452.10"),
					Currency:  "EUR",
				},
			},
			Total: decimal.RequireFromString("8452.10"),
			AsOf:  asOf,
		},
		invoices: &report.InvoiceSummary{
			ReceivedTotal: decimal.RequireFromString("3200.00"),
			SentTotal:     decimal.RequireFromString("5400.00"),
			OverdueCount:  2,
			DueSoonCount:  3,
		},
		queue: &report.ValidationQueueStats{
			PendingDocuments: 4,
			PendingEntries:   2,
		},
		docStats: &report.DocumentStats{
			ByStatus:       map[string]int64{"VALIDATED": 12, "PENDING_VALIDATION": 4, "ERROR": 1},
			TotalThisMonth: 17,
			ErrorCount:     1,
		},
		classStats: &report.ClassificationStats{
			Total:           50,
			AutoValidated:   38,
			Corrected:       4,
			AverageScore:    87.5,
			CorrectionRate:  0.08,
			AutoValidatedPc: 0.76,
		},
		recoStats: &report.ReconciliationStats{
			Unmatched: 3,
			Pending:   2,
			Matched:   45,
			Ignored:   10,
			MatchRate: 0.9,
		},
		alertCount: 5,
	}
}

func (r *fakeDashboardRepo) DocumentStats(_ context.Context, _ uuid.UUID) (*report.DocumentStats, error) {
	r.calls["DocumentStats"]++
	return r.docStats, r.err
}

func (r *fakeDashboardRepo) ValidationQueue(_ context.Context, _ uuid.UUID) (*report.ValidationQueueStats, error) {
	r.calls["ValidationQueue"]++
	return r.queue, r.err
}

func (r *fakeDashboardRepo) ClassificationStats(_ context.Context, _ uuid.UUID) (*report.ClassificationStats, error) {
	r.calls["ClassificationStats"]++
	return r.classStats, r.err
}

func (r *fakeDashboardRepo) ReconciliationStats(_ context.Context, _ uuid.UUID) (*report.ReconciliationStats, error) {
	r.calls["ReconciliationStats"]++
	return r.recoStats, r.err
}

func (r *fakeDashboardRepo) CashPosition(_ context.Context, _ uuid.UUID) (*report.CashPosition, error) {
	r.calls["CashPosition"]++
	return r.cashPosition, r.err
}

func (r *fakeDashboardRepo) InvoiceSummary(_ context.Context, _ uuid.UUID) (*report.InvoiceSummary, error) {
	r.calls["InvoiceSummary"]++
	return r.invoices, r.err
}

func (r *fakeDashboardRepo) ActiveAlertCount(_ context.Context, _ uuid.UUID, _ string) (int64, error) {
	r.calls["ActiveAlertCount"]++
	return r.alertCount, r.err
}

// brokenCache fails every operation so the service has to hit the repository.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("cache unavailable")
}

func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("cache unavailable")
}

func TestDashboardService_DirigeantDashboard(t *testing.T) {
	repo := newFakeDashboardRepo()
	svc := NewDashboardService(repo, cache.NewInMemoryDashboardCache(), zap.NewNop())
	tenantID := uuid.New()

	resp, err := svc.DirigeantDashboard(context.Background(), tenantID)
	require.NoError(t, err)

	assert.True(t, resp.CashPosition.Total.Equal(decimal.RequireFromString("8452.10")))
	require.Len(t, resp.CashPosition.Accounts, 1)
	assert.Equal(t, "Compte courant", resp.CashPosition.Accounts[0].Name)
	assert.True(t, resp.InvoiceSummary.SentTotal.Equal(decimal.RequireFromString("5400.00")))
	assert.Equal(t, int64(2), resp.InvoiceSummary.OverdueCount)
	assert.Equal(t, int64(5), resp.ActiveAlerts)
}

func TestDashboardService_AssistanteDashboard(t *testing.T) {
	repo := newFakeDashboardRepo()
	svc := NewDashboardService(repo, cache.NewInMemoryDashboardCache(), zap.NewNop())

	resp, err := svc.AssistanteDashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, int64(4), resp.ValidationQueue.PendingDocuments)
	assert.Equal(t, int64(2), resp.ValidationQueue.PendingEntries)
	assert.Equal(t, int64(17), resp.DocumentStats.TotalThisMonth)
	assert.Equal(t, int64(1), resp.DocumentStats.ErrorCount)
	assert.Equal(t, int64(12), resp.DocumentStats.ByStatus["VALIDATED"])
}

func TestDashboardService_ExpertDashboard(t *testing.T) {
	repo := newFakeDashboardRepo()
	svc := NewDashboardService(repo, cache.NewInMemoryDashboardCache(), zap.NewNop())

	resp, err := svc.ExpertDashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, int64(50), resp.ClassificationStats.Total)
	assert.Equal(t, int64(38), resp.ClassificationStats.AutoValidated)
	assert.InDelta(t, 0.76, resp.ClassificationStats.AutoValidatedRate, 0.001)
	assert.Equal(t, int64(45), resp.ReconciliationStats.Matched)
	assert.InDelta(t, 0.9, resp.ReconciliationStats.MatchRate, 0.001)
	assert.Equal(t, int64(2), resp.ValidationQueue.PendingEntries)
}

func TestDashboardService_Caching(t *testing.T) {
	t.Run("second render within the TTL is served from cache", func(t *testing.T) {
		repo := newFakeDashboardRepo()
		svc := NewDashboardService(repo, cache.NewInMemoryDashboardCache(), zap.NewNop())
		tenantID := uuid.New()

		first, err := svc.DirigeantDashboard(context.Background(), tenantID)
		require.NoError(t, err)
		second, err := svc.DirigeantDashboard(context.Background(), tenantID)
		require.NoError(t, err)

		assert.Equal(t, 1, repo.calls["CashPosition"])
		assert.Equal(t, 1, repo.calls["InvoiceSummary"])
		assert.True(t, first.CashPosition.Total.Equal(second.CashPosition.Total))
	})

	t.Run("tenants do not share cache entries", func(t *testing.T) {
		repo := newFakeDashboardRepo()
		svc := NewDashboardService(repo, cache.NewInMemoryDashboardCache(), zap.NewNop())

		_, err := svc.DirigeantDashboard(context.Background(), uuid.New())
		require.NoError(t, err)
		_, err = svc.DirigeantDashboard(context.Background(), uuid.New())
		require.NoError(t, err)

		assert.Equal(t, 2, repo.calls["CashPosition"])
	})

	t.Run("cache failure falls through to the repository", func(t *testing.T) {
		repo := newFakeDashboardRepo()
		svc := NewDashboardService(repo, brokenCache{}, zap.NewNop())

		resp, err := svc.AssistanteDashboard(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.ValidationQueue.PendingDocuments)
	})

	t.Run("repository error surfaces", func(t *testing.T) {
		repo := newFakeDashboardRepo()
		repo.err = errors.New("db down")
		svc := NewDashboardService(repo, cache.NewInMemoryDashboardCache(), zap.NewNop())

		_, err := svc.ExpertDashboard(context.Background(), uuid.New())
		assert.Error(t, err)
	})
}
