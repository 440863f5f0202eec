package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azalscore/backend/internal/domain/budget"
	"github.com/azalscore/backend/internal/domain/shared"
)

type fakeLineRepo struct {
	lines map[uuid.UUID]*budget.BudgetLine
}

func newFakeLineRepo() *fakeLineRepo {
	return &fakeLineRepo{lines: make(map[uuid.UUID]*budget.BudgetLine)}
}

func (r *fakeLineRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*budget.BudgetLine, error) {
	line, ok := r.lines[id]
	if !ok || line.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return line, nil
}

func (r *fakeLineRepo) FindByYearForTenant(_ context.Context, tenantID uuid.UUID, fiscalYear int) ([]budget.BudgetLine, error) {
	out := make([]budget.BudgetLine, 0)
	for _, line := range r.lines {
		if line.TenantID == tenantID && line.FiscalYear == fiscalYear {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (r *fakeLineRepo) FindByYearAndAccount(_ context.Context, tenantID uuid.UUID, fiscalYear int, accountCode string) (*budget.BudgetLine, error) {
	for _, line := range r.lines {
		if line.TenantID == tenantID && line.FiscalYear == fiscalYear && line.AccountCode == accountCode {
			return line, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLineRepo) Save(_ context.Context, line *budget.BudgetLine) error {
	r.lines[line.GetID()] = line
	return nil
}

func (r *fakeLineRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	line, ok := r.lines[id]
	if !ok || line.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.lines, id)
	return nil
}

func TestLineService_CreateLine(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates the line with its allocation", func(t *testing.T) {
		service := NewLineService(newFakeLineRepo())

		resp, err := service.CreateLine(ctx, tenantID, CreateLineRequest{
			FiscalYear:   2026,
			AccountCode:  "613200",
			Label:        "Loyers",
			AnnualAmount: decimal.NewFromInt(24000),
		})
		require.NoError(t, err)

		assert.Equal(t, "EQUAL", resp.Method)
		require.Len(t, resp.Monthly, 12)
		assert.True(t, resp.Monthly[0].Equal(decimal.NewFromInt(2000)))
	})

	t.Run("one line per year and account", func(t *testing.T) {
		service := NewLineService(newFakeLineRepo())
		req := CreateLineRequest{FiscalYear: 2026, AccountCode: "613200", AnnualAmount: decimal.NewFromInt(100)}

		_, err := service.CreateLine(ctx, tenantID, req)
		require.NoError(t, err)

		_, err = service.CreateLine(ctx, tenantID, req)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "BUDGET_LINE_EXISTS", domainErr.Code)
	})

	t.Run("same account in another year is fine", func(t *testing.T) {
		service := NewLineService(newFakeLineRepo())
		_, err := service.CreateLine(ctx, tenantID, CreateLineRequest{
			FiscalYear: 2026, AccountCode: "613200", AnnualAmount: decimal.NewFromInt(100)})
		require.NoError(t, err)
		_, err = service.CreateLine(ctx, tenantID, CreateLineRequest{
			FiscalYear: 2027, AccountCode: "613200", AnnualAmount: decimal.NewFromInt(100)})
		assert.NoError(t, err)
	})
}

func TestLineService_UpdateLine(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	service := NewLineService(newFakeLineRepo())

	created, err := service.CreateLine(ctx, tenantID, CreateLineRequest{
		FiscalYear: 2026, AccountCode: "626000", Label: "Télécoms", AnnualAmount: decimal.NewFromInt(1200)})
	require.NoError(t, err)

	resp, err := service.UpdateLine(ctx, tenantID, created.ID, UpdateLineRequest{
		Label: "Télécoms et internet", AnnualAmount: decimal.NewFromInt(2400)})
	require.NoError(t, err)

	assert.Equal(t, "Télécoms et internet", resp.Label)
	assert.True(t, resp.AnnualAmount.Equal(decimal.NewFromInt(2400)))
	assert.True(t, resp.Monthly[0].Equal(decimal.NewFromInt(200)))
}

func TestLineService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	service := NewLineService(newFakeLineRepo())

	created, err := service.CreateLine(ctx, tenantID, CreateLineRequest{
		FiscalYear: 2026, AccountCode: "613200", AnnualAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	_, err = service.CreateLine(ctx, tenantID, CreateLineRequest{
		FiscalYear: 2025, AccountCode: "613200", AnnualAmount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	lines, err := service.ListLines(ctx, tenantID, 2026)
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	require.NoError(t, service.DeleteLine(ctx, tenantID, created.ID))
	lines, err = service.ListLines(ctx, tenantID, 2026)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// deleting a line of another tenant fails
	err = service.DeleteLine(ctx, uuid.New(), created.ID)
	assert.Error(t, err)
}
