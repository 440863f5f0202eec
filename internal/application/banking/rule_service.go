package banking

import (
	"context"
	"time"

	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleService manages user-defined reconciliation rules.
type RuleService struct {
	ruleRepo banking.RuleRepository
}

// NewRuleService creates a new RuleService
func NewRuleService(ruleRepo banking.RuleRepository) *RuleService {
	return &RuleService{ruleRepo: ruleRepo}
}

// CreateRuleRequest represents a request to create a reconciliation rule
type CreateRuleRequest struct {
	Name          string           `json:"name" binding:"required"`
	PatternKind   string           `json:"pattern_kind" binding:"required,oneof=SUBSTRING REGEX"`
	Pattern       string           `json:"pattern" binding:"required"`
	MinAmount     *decimal.Decimal `json:"min_amount"`
	MaxAmount     *decimal.Decimal `json:"max_amount"`
	TargetAccount string           `json:"target_account"`
	Priority      int              `json:"priority"`
	CreatedBy     *uuid.UUID       `json:"-"`
}

// UpdateRuleRequest represents a request to update a reconciliation rule
type UpdateRuleRequest struct {
	Name          string           `json:"name" binding:"required"`
	MinAmount     *decimal.Decimal `json:"min_amount"`
	MaxAmount     *decimal.Decimal `json:"max_amount"`
	TargetAccount string           `json:"target_account"`
	Priority      int              `json:"priority"`
	Active        bool             `json:"active"`
}

// RuleResponse represents a reconciliation rule in API responses
type RuleResponse struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	PatternKind   string           `json:"pattern_kind"`
	Pattern       string           `json:"pattern"`
	MinAmount     *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount     *decimal.Decimal `json:"max_amount,omitempty"`
	TargetAccount string           `json:"target_account,omitempty"`
	Priority      int              `json:"priority"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CreateRule creates a reconciliation rule
func (s *RuleService) CreateRule(ctx context.Context, tenantID uuid.UUID, req CreateRuleRequest) (*RuleResponse, error) {
	rule, err := banking.NewReconciliationRule(
		tenantID, req.Name, banking.RulePatternKind(req.PatternKind),
		req.Pattern, req.TargetAccount, req.Priority,
	)
	if err != nil {
		return nil, err
	}
	rule.WithAmountBounds(req.MinAmount, req.MaxAmount)
	if req.CreatedBy != nil {
		rule.CreatedBy = req.CreatedBy
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// UpdateRule updates a rule's tunable fields. The pattern itself is
// immutable; create a new rule to change what it matches.
func (s *RuleService) UpdateRule(ctx context.Context, tenantID, id uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	rule.Name = req.Name
	rule.TargetAccount = req.TargetAccount
	rule.Priority = req.Priority
	rule.Active = req.Active
	rule.WithAmountBounds(req.MinAmount, req.MaxAmount)
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// GetRule gets a rule by ID
func (s *RuleService) GetRule(ctx context.Context, tenantID, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// ListRules lists the tenant's rules
func (s *RuleService) ListRules(ctx context.Context, tenantID uuid.UUID) ([]RuleResponse, error) {
	rules, err := s.ruleRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = *toRuleResponse(&rules[i])
	}
	return responses, nil
}

// DeleteRule deletes a rule
func (s *RuleService) DeleteRule(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.ruleRepo.Delete(ctx, tenantID, id)
}

func toRuleResponse(r *banking.ReconciliationRule) *RuleResponse {
	return &RuleResponse{
		ID:            r.ID,
		Name:          r.Name,
		PatternKind:   string(r.PatternKind),
		Pattern:       r.Pattern,
		MinAmount:     r.MinAmount,
		MaxAmount:     r.MaxAmount,
		TargetAccount: r.TargetAccount,
		Priority:      r.Priority,
		Active:        r.Active,
		CreatedAt:     r.CreatedAt,
	}
}
