package accounting

import (
	"context"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentFilter defines filtering options for document list queries
type DocumentFilter struct {
	Status       DocumentStatus
	DocumentType DocumentType
	Search       string
	Page         int
	PageSize     int
}

// DocumentRepository persists AccountingDocument aggregates
type DocumentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountingDocument, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter DocumentFilter) ([]AccountingDocument, int64, error)
	FindByFileHash(ctx context.Context, tenantID uuid.UUID, fileHash string) (*AccountingDocument, error)
	FindOpenForReconciliation(ctx context.Context, tenantID uuid.UUID) ([]AccountingDocument, error)
	GenerateDocumentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	Save(ctx context.Context, doc *AccountingDocument) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// OCRResultRepository persists OCR passes
type OCRResultRepository interface {
	FindLatestForDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*OCRResult, error)
	Save(ctx context.Context, result *OCRResult) error
}

// ClassificationRepository persists classification attempts
type ClassificationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AIClassification, error)
	FindLatestForDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*AIClassification, error)
	FindHistoryForDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]AIClassification, error)
	Save(ctx context.Context, classification *AIClassification) error
}

// AutoEntryRepository persists entry proposals
type AutoEntryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AutoEntry, error)
	FindByDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*AutoEntry, error)
	FindPendingReview(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AutoEntry, int64, error)
	Save(ctx context.Context, entry *AutoEntry) error
}

// JournalEntryRepository persists posted ledger entries
type JournalEntryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*JournalEntry, error)
	GenerateEntryNumber(ctx context.Context, tenantID uuid.UUID, journalCode string) (string, error)
	Save(ctx context.Context, entry *JournalEntry) error
}

// AlertFilter defines filtering options for alert list queries
type AlertFilter struct {
	Status    AlertStatus
	AlertType AlertType
	Role      string
	Page      int
	PageSize  int
}

// AlertRepository persists alerts
type AlertRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*AccountingAlert, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter AlertFilter) ([]AccountingAlert, int64, error)
	Save(ctx context.Context, alert *AccountingAlert) error
}
