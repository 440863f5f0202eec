package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/azalscore/backend/internal/domain/report"
	"github.com/azalscore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements report.DashboardRepository with
// aggregation queries. Everything here is read-only.
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

// DocumentStats summarizes the document pipeline for a tenant
func (r *GormDashboardRepository) DocumentStats(ctx context.Context, tenantID uuid.UUID) (*report.DocumentStats, error) {
	var counts []statusCount
	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	stats := &report.DocumentStats{ByStatus: make(map[string]int64, len(counts))}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
		if c.Status == string(accounting.DocumentStatusError) {
			stats.ErrorCount = c.Count
		}
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("tenant_id = ? AND created_at >= ?", tenantID, monthStart).
		Count(&stats.TotalThisMonth).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// ValidationQueue summarizes what is waiting on a human
func (r *GormDashboardRepository) ValidationQueue(ctx context.Context, tenantID uuid.UUID) (*report.ValidationQueueStats, error) {
	stats := &report.ValidationQueueStats{}

	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, accounting.DocumentStatusPendingValidation).
		Count(&stats.PendingDocuments).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.AutoEntryModel{}).
		Where("tenant_id = ? AND status = ? AND requires_review = ?",
			tenantID, accounting.AutoEntryStatusDraft, true).
		Count(&stats.PendingEntries).Error; err != nil {
		return nil, err
	}

	var oldest models.DocumentModel
	err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, accounting.DocumentStatusPendingValidation).
		Order("created_at ASC").
		First(&oldest).Error
	if err == nil {
		stats.OldestPendingAt = &oldest.CreatedAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return stats, nil
}

// ClassificationStats summarizes classifier accuracy for a tenant
func (r *GormDashboardRepository) ClassificationStats(ctx context.Context, tenantID uuid.UUID) (*report.ClassificationStats, error) {
	stats := &report.ClassificationStats{}

	query := r.db.WithContext(ctx).Model(&models.ClassificationModel{}).
		Where("tenant_id = ?", tenantID)
	if err := query.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if stats.Total == 0 {
		return stats, nil
	}

	if err := r.db.WithContext(ctx).Model(&models.ClassificationModel{}).
		Where("tenant_id = ? AND corrected = ?", tenantID, true).
		Count(&stats.Corrected).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.AutoEntryModel{}).
		Where("tenant_id = ? AND auto_validated = ?", tenantID, true).
		Count(&stats.AutoValidated).Error; err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	if err := r.db.WithContext(ctx).Model(&models.ClassificationModel{}).
		Select("AVG(confidence_score)").
		Where("tenant_id = ?", tenantID).
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AverageScore = avg.Float64
	}
	stats.CorrectionRate = float64(stats.Corrected) / float64(stats.Total)
	stats.AutoValidatedPc = float64(stats.AutoValidated) / float64(stats.Total)
	return stats, nil
}

// ReconciliationStats summarizes bank matching progress for a tenant
func (r *GormDashboardRepository) ReconciliationStats(ctx context.Context, tenantID uuid.UUID) (*report.ReconciliationStats, error) {
	var counts []statusCount
	if err := r.db.WithContext(ctx).Model(&models.BankTransactionModel{}).
		Select("status, COUNT(*) as count").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	stats := &report.ReconciliationStats{}
	for _, c := range counts {
		switch banking.ReconciliationStatus(c.Status) {
		case banking.ReconciliationUnmatched:
			stats.Unmatched = c.Count
		case banking.ReconciliationPending:
			stats.Pending = c.Count
		case banking.ReconciliationMatched:
			stats.Matched = c.Count
		case banking.ReconciliationIgnored:
			stats.Ignored = c.Count
		}
	}
	total := stats.Unmatched + stats.Pending + stats.Matched + stats.Ignored
	if total > 0 {
		// Ignored transactions count as handled
		stats.MatchRate = float64(stats.Matched+stats.Ignored) / float64(total)
	}
	return stats, nil
}

// CashPosition aggregates synced bank balances for a tenant
func (r *GormDashboardRepository) CashPosition(ctx context.Context, tenantID uuid.UUID) (*report.CashPosition, error) {
	var accountModels []models.BankAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	position := &report.CashPosition{
		Accounts: make([]report.AccountBalance, len(accountModels)),
		Total:    decimal.Zero,
		AsOf:     time.Now(),
	}
	for i, m := range accountModels {
		position.Accounts[i] = report.AccountBalance{
			AccountID: m.ID,
			Name:      m.Name,
			IBAN:      m.IBAN,
			Balance:   m.Balance,
			Currency:  m.Currency,
		}
		position.Total = position.Total.Add(m.Balance)
	}
	return position, nil
}

// InvoiceSummary aggregates open invoice amounts for a tenant
func (r *GormDashboardRepository) InvoiceSummary(ctx context.Context, tenantID uuid.UUID) (*report.InvoiceSummary, error) {
	summary := &report.InvoiceSummary{}
	openStatuses := []string{
		string(accounting.DocumentStatusPendingValidation),
		string(accounting.DocumentStatusValidated),
		string(accounting.DocumentStatusAccounted),
	}

	var received decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Select("SUM(amount_total)").
		Where("tenant_id = ? AND document_type = ? AND status IN ?",
			tenantID, accounting.DocumentTypeInvoiceReceived, openStatuses).
		Scan(&received).Error; err != nil {
		return nil, err
	}
	if received.Valid {
		summary.ReceivedTotal = received.Decimal
	}

	var sent decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Select("SUM(amount_total)").
		Where("tenant_id = ? AND document_type = ? AND status IN ?",
			tenantID, accounting.DocumentTypeInvoiceSent, openStatuses).
		Scan(&sent).Error; err != nil {
		return nil, err
	}
	if sent.Valid {
		summary.SentTotal = sent.Decimal
	}

	now := time.Now()
	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("tenant_id = ? AND status IN ? AND due_date IS NOT NULL AND due_date < ?",
			tenantID, openStatuses, now).
		Count(&summary.OverdueCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("tenant_id = ? AND status IN ? AND due_date IS NOT NULL AND due_date BETWEEN ? AND ?",
			tenantID, openStatuses, now, now.AddDate(0, 0, 7)).
		Count(&summary.DueSoonCount).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// ActiveAlertCount counts active alerts visible to a role
func (r *GormDashboardRepository) ActiveAlertCount(ctx context.Context, tenantID uuid.UUID, role string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AlertModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, accounting.AlertStatusActive)
	if role != "" {
		query = query.Where(
			"target_roles = '[]' OR target_roles LIKE ?",
			fmt.Sprintf("%%%q%%", role),
		)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
