package accounting

import (
	"time"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AutoEntryStatus represents the lifecycle of a proposed entry
type AutoEntryStatus string

const (
	AutoEntryStatusDraft    AutoEntryStatus = "DRAFT"
	AutoEntryStatusPosted   AutoEntryStatus = "POSTED"
	AutoEntryStatusRejected AutoEntryStatus = "REJECTED"
)

// IsValid checks if the status is a valid AutoEntryStatus
func (s AutoEntryStatus) IsValid() bool {
	switch s {
	case AutoEntryStatusDraft, AutoEntryStatusPosted, AutoEntryStatusRejected:
		return true
	}
	return false
}

// AutoEntry is the system-proposed double-entry line set for a document.
// It stays a draft until a human validates it or auto-validation applies,
// at which point it is posted as a JournalEntry.
type AutoEntry struct {
	shared.TenantAggregateRoot
	DocumentID      uuid.UUID
	JournalCode     string
	Lines           []EntryLine
	ConfidenceLevel ConfidenceLevel
	ConfidenceScore float64
	AutoValidated   bool
	RequiresReview  bool
	Status          AutoEntryStatus
	JournalEntryID  *uuid.UUID
	RejectionReason string
	PostedAt        *time.Time
}

// NewAutoEntry creates a draft entry proposal for a document. Lines must
// already balance; the rules engine guarantees it by construction and this
// constructor re-verifies before accepting them.
func NewAutoEntry(
	tenantID, documentID uuid.UUID,
	journalCode string,
	lines []EntryLine,
	level ConfidenceLevel,
	score float64,
) (*AutoEntry, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document ID is required")
	}
	if len(lines) < 2 {
		return nil, shared.NewDomainError("INVALID_INPUT", "An entry proposal needs at least two lines")
	}
	if !LinesBalanced(lines) {
		return nil, shared.ErrUnbalancedEntry.WithDetail("document_id", documentID.String())
	}
	autoValidated := level == ConfidenceHigh && score >= HighConfidenceThreshold
	return &AutoEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentID:          documentID,
		JournalCode:         journalCode,
		Lines:               lines,
		ConfidenceLevel:     level,
		ConfidenceScore:     score,
		AutoValidated:       autoValidated,
		RequiresReview:      !autoValidated,
		Status:              AutoEntryStatusDraft,
	}, nil
}

// MarkPosted links the proposal to the ledger entry it became
func (e *AutoEntry) MarkPosted(journalEntryID uuid.UUID) error {
	if e.Status != AutoEntryStatusDraft {
		return shared.ErrInvalidState.WithDetail("status", string(e.Status))
	}
	now := time.Now()
	e.Status = AutoEntryStatusPosted
	e.JournalEntryID = &journalEntryID
	e.PostedAt = &now
	return nil
}

// Reject discards the proposal with a reason
func (e *AutoEntry) Reject(reason string) error {
	if e.Status != AutoEntryStatusDraft {
		return shared.ErrInvalidState.WithDetail("status", string(e.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason is required")
	}
	e.Status = AutoEntryStatusRejected
	e.RejectionReason = reason
	return nil
}
