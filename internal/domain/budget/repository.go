package budget

import (
	"context"

	"github.com/google/uuid"
)

// LineRepository persists budget lines
type LineRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BudgetLine, error)
	FindByYearForTenant(ctx context.Context, tenantID uuid.UUID, fiscalYear int) ([]BudgetLine, error)
	FindByYearAndAccount(ctx context.Context, tenantID uuid.UUID, fiscalYear int, accountCode string) (*BudgetLine, error)
	Save(ctx context.Context, line *BudgetLine) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
