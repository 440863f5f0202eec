// Package budget provides application services for annual budget lines
// and their monthly allocation.
package budget

import (
	"context"
	"errors"
	"time"

	"github.com/azalscore/backend/internal/domain/budget"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineService manages budget lines
type LineService struct {
	lineRepo budget.LineRepository
}

// NewLineService creates a new LineService
func NewLineService(lineRepo budget.LineRepository) *LineService {
	return &LineService{lineRepo: lineRepo}
}

// CreateLineRequest represents a request to create a budget line
type CreateLineRequest struct {
	FiscalYear   int             `json:"fiscal_year" binding:"required,min=2000,max=2100"`
	AccountCode  string          `json:"account_code" binding:"required"`
	Label        string          `json:"label"`
	AnnualAmount decimal.Decimal `json:"annual_amount" binding:"required"`
	Method       string          `json:"method" binding:"omitempty,oneof=EQUAL"`
	CreatedBy    *uuid.UUID      `json:"-"`
}

// UpdateLineRequest represents a request to update a budget line
type UpdateLineRequest struct {
	Label        string          `json:"label"`
	AnnualAmount decimal.Decimal `json:"annual_amount" binding:"required"`
}

// LineResponse represents a budget line in API responses
type LineResponse struct {
	ID           uuid.UUID         `json:"id"`
	FiscalYear   int               `json:"fiscal_year"`
	AccountCode  string            `json:"account_code"`
	Label        string            `json:"label"`
	AnnualAmount decimal.Decimal   `json:"annual_amount"`
	Method       string            `json:"method"`
	Monthly      []decimal.Decimal `json:"monthly"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// CreateLine creates a budget line. One line per fiscal year and account.
func (s *LineService) CreateLine(ctx context.Context, tenantID uuid.UUID, req CreateLineRequest) (*LineResponse, error) {
	method := budget.AllocationMethod(req.Method)
	if req.Method == "" {
		method = budget.AllocationEqual
	}

	existing, err := s.lineRepo.FindByYearAndAccount(ctx, tenantID, req.FiscalYear, req.AccountCode)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("BUDGET_LINE_EXISTS", "A budget line already exists for this year and account").
			WithDetail("existing_line_id", existing.GetID().String())
	}

	line, err := budget.NewBudgetLine(tenantID, req.FiscalYear, req.AccountCode, req.Label, req.AnnualAmount, method)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		line.CreatedBy = req.CreatedBy
	}
	if err := s.lineRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	return toLineResponse(line), nil
}

// UpdateLine updates a line's label and amount. The monthly allocation is
// recomputed from the new annual amount.
func (s *LineService) UpdateLine(ctx context.Context, tenantID, id uuid.UUID, req UpdateLineRequest) (*LineResponse, error) {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := line.Reallocate(req.AnnualAmount); err != nil {
		return nil, err
	}
	line.Label = req.Label
	if err := s.lineRepo.Save(ctx, line); err != nil {
		return nil, err
	}
	return toLineResponse(line), nil
}

// GetLine returns a budget line by ID
func (s *LineService) GetLine(ctx context.Context, tenantID, id uuid.UUID) (*LineResponse, error) {
	line, err := s.lineRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toLineResponse(line), nil
}

// ListLines returns all budget lines for a fiscal year
func (s *LineService) ListLines(ctx context.Context, tenantID uuid.UUID, fiscalYear int) ([]LineResponse, error) {
	lines, err := s.lineRepo.FindByYearForTenant(ctx, tenantID, fiscalYear)
	if err != nil {
		return nil, err
	}
	responses := make([]LineResponse, len(lines))
	for i := range lines {
		responses[i] = *toLineResponse(&lines[i])
	}
	return responses, nil
}

// DeleteLine removes a budget line
func (s *LineService) DeleteLine(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.lineRepo.Delete(ctx, tenantID, id)
}

func toLineResponse(line *budget.BudgetLine) *LineResponse {
	return &LineResponse{
		ID:           line.GetID(),
		FiscalYear:   line.FiscalYear,
		AccountCode:  line.AccountCode,
		Label:        line.Label,
		AnnualAmount: line.AnnualAmount,
		Method:       string(line.Method),
		Monthly:      line.Monthly,
		CreatedAt:    line.GetCreatedAt(),
		UpdatedAt:    line.GetUpdatedAt(),
	}
}
