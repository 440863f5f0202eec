package budget

import (
	"strings"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationMethod determines how an annual amount is spread over months
type AllocationMethod string

const (
	AllocationEqual AllocationMethod = "EQUAL"
)

// IsValid checks the allocation method
func (m AllocationMethod) IsValid() bool {
	return m == AllocationEqual
}

// BudgetLine is an annual budget amount for an account, allocated by month
type BudgetLine struct {
	shared.TenantAggregateRoot
	FiscalYear   int
	AccountCode  string
	Label        string
	AnnualAmount decimal.Decimal
	Method       AllocationMethod
	Monthly      []decimal.Decimal
}

// NewBudgetLine creates a budget line with its monthly allocation computed
func NewBudgetLine(
	tenantID uuid.UUID,
	fiscalYear int,
	accountCode, label string,
	annualAmount decimal.Decimal,
	method AllocationMethod,
) (*BudgetLine, error) {
	if strings.TrimSpace(accountCode) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account code is required")
	}
	if annualAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Annual amount cannot be negative")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown allocation method")
	}
	return &BudgetLine{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		FiscalYear:          fiscalYear,
		AccountCode:         accountCode,
		Label:               label,
		AnnualAmount:        annualAmount.Round(2),
		Method:              method,
		Monthly:             AllocateEqual(annualAmount.Round(2)),
	}, nil
}

// MonthlyAmount returns the allocation for a month (1..12)
func (b *BudgetLine) MonthlyAmount(month int) (decimal.Decimal, error) {
	if month < 1 || month > 12 {
		return decimal.Zero, shared.NewDomainError("INVALID_INPUT", "Month must be between 1 and 12")
	}
	return b.Monthly[month-1], nil
}

// AllocateEqual splits an annual amount into 12 equal monthly slices.
// Rounding residue lands on the last month so the twelve slices sum back
// to the annual amount exactly.
func AllocateEqual(annual decimal.Decimal) []decimal.Decimal {
	monthly := annual.Div(decimal.NewFromInt(12)).Round(2)
	slices := make([]decimal.Decimal, 12)
	running := decimal.Zero
	for i := 0; i < 11; i++ {
		slices[i] = monthly
		running = running.Add(monthly)
	}
	slices[11] = annual.Sub(running)
	return slices
}

// Reallocate replaces the annual amount and recomputes the monthly slices
func (b *BudgetLine) Reallocate(annualAmount decimal.Decimal) error {
	if annualAmount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Annual amount cannot be negative")
	}
	b.AnnualAmount = annualAmount.Round(2)
	b.Monthly = AllocateEqual(b.AnnualAmount)
	return nil
}
