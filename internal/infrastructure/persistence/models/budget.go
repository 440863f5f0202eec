package models

import (
	"encoding/json"

	"github.com/azalscore/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetLineModel is the persistence model for BudgetLine. The tenant column
// is declared here instead of through TenantAggregateModel because it leads
// the (tenant_id, fiscal_year, account_code) unique index: one budget line
// per account and year within a tenant, never across tenants.
type BudgetLineModel struct {
	AggregateModel
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_budget_lines_year_account,priority:1"`
	CreatedBy    *uuid.UUID      `gorm:"type:uuid;index"`
	FiscalYear   int             `gorm:"not null;uniqueIndex:idx_budget_lines_year_account,priority:2"`
	AccountCode  string          `gorm:"type:varchar(16);not null;uniqueIndex:idx_budget_lines_year_account,priority:3"`
	Label        string          `gorm:"type:varchar(255)"`
	AnnualAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Method       string          `gorm:"type:varchar(16);not null"`
	MonthlyJSON  string          `gorm:"column:monthly;type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for BudgetLineModel
func (BudgetLineModel) TableName() string { return "budget_lines" }

// ToDomain converts the model to a domain BudgetLine
func (m *BudgetLineModel) ToDomain() (*budget.BudgetLine, error) {
	var monthly []decimal.Decimal
	if m.MonthlyJSON != "" {
		if err := json.Unmarshal([]byte(m.MonthlyJSON), &monthly); err != nil {
			return nil, err
		}
	}
	b := &budget.BudgetLine{
		FiscalYear:   m.FiscalYear,
		AccountCode:  m.AccountCode,
		Label:        m.Label,
		AnnualAmount: m.AnnualAmount,
		Method:       budget.AllocationMethod(m.Method),
		Monthly:      monthly,
	}
	b.ID = m.ID
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	b.Version = m.Version
	b.TenantID = m.TenantID
	b.CreatedBy = m.CreatedBy
	return b, nil
}

// BudgetLineModelFromDomain converts a domain BudgetLine to the model
func BudgetLineModelFromDomain(b *budget.BudgetLine) (*BudgetLineModel, error) {
	monthlyJSON, err := json.Marshal(b.Monthly)
	if err != nil {
		return nil, err
	}
	m := &BudgetLineModel{
		TenantID:     b.TenantID,
		CreatedBy:    b.CreatedBy,
		FiscalYear:   b.FiscalYear,
		AccountCode:  b.AccountCode,
		Label:        b.Label,
		AnnualAmount: b.AnnualAmount,
		Method:       string(b.Method),
		MonthlyJSON:  string(monthlyJSON),
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m, nil
}
