package accounting

import (
	"context"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EntryService validates entry proposals into posted journal entries.
type EntryService struct {
	entryRepo   accounting.AutoEntryRepository
	journalRepo accounting.JournalEntryRepository
	docRepo     accounting.DocumentRepository
	logger      *zap.Logger
}

// NewEntryService creates a new EntryService
func NewEntryService(
	entryRepo accounting.AutoEntryRepository,
	journalRepo accounting.JournalEntryRepository,
	docRepo accounting.DocumentRepository,
	logger *zap.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:   entryRepo,
		journalRepo: journalRepo,
		docRepo:     docRepo,
		logger:      logger,
	}
}

// EntryLineResponse represents one entry line in API responses
type EntryLineResponse struct {
	AccountCode string          `json:"account_code"`
	Label       string          `json:"label"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// AutoEntryResponse represents an entry proposal in API responses
type AutoEntryResponse struct {
	ID              uuid.UUID           `json:"id"`
	TenantID        uuid.UUID           `json:"tenant_id"`
	DocumentID      uuid.UUID           `json:"document_id"`
	JournalCode     string              `json:"journal_code"`
	Lines           []EntryLineResponse `json:"lines"`
	ConfidenceLevel string              `json:"confidence_level"`
	ConfidenceScore float64             `json:"confidence_score"`
	AutoValidated   bool                `json:"auto_validated"`
	RequiresReview  bool                `json:"requires_review"`
	Status          string              `json:"status"`
	JournalEntryID  *uuid.UUID          `json:"journal_entry_id,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	PostedAt        *time.Time          `json:"posted_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// BulkValidateResult reports the outcome of one entry in a bulk validation
type BulkValidateResult struct {
	EntryID uuid.UUID `json:"entry_id"`
	Posted  bool      `json:"posted"`
	Error   string    `json:"error,omitempty"`
}

// ListPendingReview lists draft proposals awaiting a human decision
func (s *EntryService) ListPendingReview(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[AutoEntryResponse], error) {
	entries, total, err := s.entryRepo.FindPendingReview(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]AutoEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toAutoEntryResponse(&entries[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetEntry gets an entry proposal by ID
func (s *EntryService) GetEntry(ctx context.Context, tenantID, id uuid.UUID) (*AutoEntryResponse, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toAutoEntryResponse(entry), nil
}

// ValidateEntry posts a proposal to the ledger. The balance is re-verified
// at posting time; an unbalanced proposal can never reach the ledger.
func (s *EntryService) ValidateEntry(ctx context.Context, tenantID, entryID uuid.UUID, userID *uuid.UUID) (*AutoEntryResponse, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	// refuse non-draft proposals before anything touches the ledger
	if entry.Status != accounting.AutoEntryStatusDraft {
		return nil, shared.ErrInvalidState.WithDetail("status", string(entry.Status))
	}
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, entry.DocumentID)
	if err != nil {
		return nil, err
	}

	entryNumber, err := s.journalRepo.GenerateEntryNumber(ctx, tenantID, entry.JournalCode)
	if err != nil {
		return nil, err
	}
	entryDate := time.Now()
	if doc.DocumentDate != nil {
		entryDate = *doc.DocumentDate
	}
	journalEntry, err := accounting.NewJournalEntry(
		tenantID, entryNumber, entry.JournalCode, entryDate,
		doc.InvoiceNumber, entry.Lines, &doc.ID, userID,
	)
	if err != nil {
		return nil, err
	}
	if err := s.journalRepo.Save(ctx, journalEntry); err != nil {
		return nil, err
	}

	if err := entry.MarkPosted(journalEntry.ID); err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	if doc.Status == accounting.DocumentStatusPendingValidation {
		if err := doc.Validate(userID); err != nil {
			return nil, err
		}
	}
	if err := doc.MarkAccounted(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("entry posted",
		zap.String("entry_number", entryNumber),
		zap.String("journal", entry.JournalCode),
		zap.String("document_id", doc.ID.String()))
	return toAutoEntryResponse(entry), nil
}

// BulkValidateEntries posts several proposals, reporting per-entry outcomes
// instead of failing the batch on the first error.
func (s *EntryService) BulkValidateEntries(ctx context.Context, tenantID uuid.UUID, entryIDs []uuid.UUID, userID *uuid.UUID) []BulkValidateResult {
	results := make([]BulkValidateResult, 0, len(entryIDs))
	for _, id := range entryIDs {
		result := BulkValidateResult{EntryID: id, Posted: true}
		if _, err := s.ValidateEntry(ctx, tenantID, id, userID); err != nil {
			result.Posted = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// RejectEntry rejects a proposal and the document behind it
func (s *EntryService) RejectEntry(ctx context.Context, tenantID, entryID uuid.UUID, reason string) (*AutoEntryResponse, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := entry.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.entryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, entry.DocumentID)
	if err == nil {
		if err := doc.Reject(reason); err == nil {
			if err := s.docRepo.Save(ctx, doc); err != nil {
				return nil, err
			}
		}
	}
	return toAutoEntryResponse(entry), nil
}

func toAutoEntryResponse(entry *accounting.AutoEntry) *AutoEntryResponse {
	lines := make([]EntryLineResponse, len(entry.Lines))
	for i, l := range entry.Lines {
		lines[i] = EntryLineResponse{
			AccountCode: l.AccountCode,
			Label:       l.Label,
			Debit:       l.Debit,
			Credit:      l.Credit,
		}
	}
	return &AutoEntryResponse{
		ID:              entry.ID,
		TenantID:        entry.TenantID,
		DocumentID:      entry.DocumentID,
		JournalCode:     entry.JournalCode,
		Lines:           lines,
		ConfidenceLevel: string(entry.ConfidenceLevel),
		ConfidenceScore: entry.ConfidenceScore,
		AutoValidated:   entry.AutoValidated,
		RequiresReview:  entry.RequiresReview,
		Status:          string(entry.Status),
		JournalEntryID:  entry.JournalEntryID,
		RejectionReason: entry.RejectionReason,
		PostedAt:        entry.PostedAt,
		CreatedAt:       entry.CreatedAt,
	}
}
