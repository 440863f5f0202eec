package banking

import (
	"regexp"
	"strings"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RulePatternKind selects how a rule pattern is evaluated
type RulePatternKind string

const (
	PatternSubstring RulePatternKind = "SUBSTRING"
	PatternRegex     RulePatternKind = "REGEX"
)

// ReconciliationRule is a user-defined pattern that overrides the default
// matcher. Rules run before heuristic matching, in priority order.
type ReconciliationRule struct {
	shared.TenantAggregateRoot
	Name           string
	PatternKind    RulePatternKind
	Pattern        string
	MinAmount      *decimal.Decimal
	MaxAmount      *decimal.Decimal
	TargetAccount  string
	TargetDocType  string
	Priority       int
	Active         bool
	compiledRegexp *regexp.Regexp
}

// NewReconciliationRule creates an active rule
func NewReconciliationRule(
	tenantID uuid.UUID,
	name string,
	kind RulePatternKind,
	pattern string,
	targetAccount string,
	priority int,
) (*ReconciliationRule, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rule name is required")
	}
	if pattern == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rule pattern is required")
	}
	rule := &ReconciliationRule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		PatternKind:         kind,
		Pattern:             pattern,
		TargetAccount:       targetAccount,
		Priority:            priority,
		Active:              true,
	}
	if kind == PatternRegex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid rule regex: "+err.Error())
		}
		rule.compiledRegexp = re
	}
	return rule, nil
}

// WithAmountBounds constrains the rule to an amount range
func (r *ReconciliationRule) WithAmountBounds(minAmount, maxAmount *decimal.Decimal) *ReconciliationRule {
	r.MinAmount = minAmount
	r.MaxAmount = maxAmount
	return r
}

// Matches evaluates the rule against a transaction
func (r *ReconciliationRule) Matches(tx *SyncedTransaction) bool {
	if !r.Active {
		return false
	}
	if r.MinAmount != nil && tx.Amount.LessThan(*r.MinAmount) {
		return false
	}
	if r.MaxAmount != nil && tx.Amount.GreaterThan(*r.MaxAmount) {
		return false
	}
	haystack := tx.Label + " " + tx.Counterparty
	switch r.PatternKind {
	case PatternRegex:
		if r.compiledRegexp == nil {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				return false
			}
			r.compiledRegexp = re
		}
		return r.compiledRegexp.MatchString(haystack)
	default:
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(r.Pattern))
	}
}
