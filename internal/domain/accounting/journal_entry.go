package accounting

import (
	"time"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed |sum(debit) - sum(credit)| for a
// journal entry, in currency units. Covers rounding of VAT lines.
var BalanceTolerance = decimal.NewFromFloat(0.02)

// EntryLine is one line of a double-entry set
type EntryLine struct {
	AccountCode string          `json:"account_code"`
	Label       string          `json:"label"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// LinesBalanced verifies sum(debit) == sum(credit) within BalanceTolerance.
func LinesBalanced(lines []EntryLine) bool {
	debit := decimal.Zero
	credit := decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit.Sub(credit).Abs().LessThanOrEqual(BalanceTolerance)
}

// JournalEntry is a posted general-ledger entry. Balance is verified at
// construction: an unbalanced entry can never reach the ledger, regardless
// of what the generating template produced.
type JournalEntry struct {
	shared.TenantAggregateRoot
	EntryNumber string
	JournalCode string
	EntryDate   time.Time
	Reference   string
	Lines       []EntryLine
	DocumentID  *uuid.UUID
	PostedBy    *uuid.UUID
	PostedAt    time.Time
}

// NewJournalEntry creates a balanced ledger entry or fails.
func NewJournalEntry(
	tenantID uuid.UUID,
	entryNumber, journalCode string,
	entryDate time.Time,
	reference string,
	lines []EntryLine,
	documentID *uuid.UUID,
	postedBy *uuid.UUID,
) (*JournalEntry, error) {
	if entryNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Entry number is required")
	}
	if journalCode == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Journal code is required")
	}
	if len(lines) < 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A journal entry needs at least two lines")
	}
	for _, l := range lines {
		if l.AccountCode == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Every entry line needs an account code")
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Entry line amounts cannot be negative")
		}
	}
	if !LinesBalanced(lines) {
		return nil, shared.ErrUnbalancedEntry.WithDetail("entry_number", entryNumber)
	}
	return &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryNumber:         entryNumber,
		JournalCode:         journalCode,
		EntryDate:           entryDate,
		Reference:           reference,
		Lines:               lines,
		DocumentID:          documentID,
		PostedBy:            postedBy,
		PostedAt:            time.Now(),
	}, nil
}

// TotalDebit returns the sum of all debit amounts
func (e *JournalEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredit returns the sum of all credit amounts
func (e *JournalEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Credit)
	}
	return total
}
