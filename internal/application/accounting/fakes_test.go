package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
)

// In-memory fakes for the pipeline ports. No locking: each test drives the
// service from a single goroutine.

type fakeDocumentRepo struct {
	docs map[uuid.UUID]*accounting.AccountingDocument
	seq  int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[uuid.UUID]*accounting.AccountingDocument)}
}

func (r *fakeDocumentRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*accounting.AccountingDocument, error) {
	doc, ok := r.docs[id]
	if !ok || doc.TenantID != tenantID {
		return nil, shared.ErrNotFound.WithDetail("document_id", id.String())
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, filter accounting.DocumentFilter) ([]accounting.AccountingDocument, int64, error) {
	out := make([]accounting.AccountingDocument, 0, len(r.docs))
	for _, doc := range r.docs {
		if doc.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		out = append(out, *doc)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDocumentRepo) FindByFileHash(_ context.Context, tenantID uuid.UUID, fileHash string) (*accounting.AccountingDocument, error) {
	for _, doc := range r.docs {
		if doc.TenantID == tenantID && doc.FileHash == fileHash {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeDocumentRepo) FindOpenForReconciliation(_ context.Context, tenantID uuid.UUID) ([]accounting.AccountingDocument, error) {
	out := make([]accounting.AccountingDocument, 0)
	for _, doc := range r.docs {
		if doc.TenantID != tenantID {
			continue
		}
		switch doc.Status {
		case accounting.DocumentStatusPendingValidation, accounting.DocumentStatusValidated, accounting.DocumentStatusAccounted:
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) GenerateDocumentNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("DOC-2026-%04d", r.seq), nil
}

func (r *fakeDocumentRepo) Save(_ context.Context, doc *accounting.AccountingDocument) error {
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	doc, ok := r.docs[id]
	if !ok || doc.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

type fakeOCRResultRepo struct {
	results []*accounting.OCRResult
}

func (r *fakeOCRResultRepo) FindLatestForDocument(_ context.Context, tenantID, documentID uuid.UUID) (*accounting.OCRResult, error) {
	for i := len(r.results) - 1; i >= 0; i-- {
		if r.results[i].TenantID == tenantID && r.results[i].DocumentID == documentID {
			return r.results[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOCRResultRepo) Save(_ context.Context, result *accounting.OCRResult) error {
	r.results = append(r.results, result)
	return nil
}

type fakeClassificationRepo struct {
	classifications []*accounting.AIClassification
}

func (r *fakeClassificationRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*accounting.AIClassification, error) {
	for _, c := range r.classifications {
		if c.TenantID == tenantID && c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeClassificationRepo) FindLatestForDocument(_ context.Context, tenantID, documentID uuid.UUID) (*accounting.AIClassification, error) {
	for i := len(r.classifications) - 1; i >= 0; i-- {
		if r.classifications[i].TenantID == tenantID && r.classifications[i].DocumentID == documentID {
			return r.classifications[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeClassificationRepo) FindHistoryForDocument(_ context.Context, tenantID, documentID uuid.UUID) ([]accounting.AIClassification, error) {
	out := make([]accounting.AIClassification, 0)
	for _, c := range r.classifications {
		if c.TenantID == tenantID && c.DocumentID == documentID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClassificationRepo) Save(_ context.Context, c *accounting.AIClassification) error {
	for i, existing := range r.classifications {
		if existing.ID == c.ID {
			r.classifications[i] = c
			return nil
		}
	}
	r.classifications = append(r.classifications, c)
	return nil
}

type fakeAutoEntryRepo struct {
	entries map[uuid.UUID]*accounting.AutoEntry
}

func newFakeAutoEntryRepo() *fakeAutoEntryRepo {
	return &fakeAutoEntryRepo{entries: make(map[uuid.UUID]*accounting.AutoEntry)}
}

func (r *fakeAutoEntryRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*accounting.AutoEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.TenantID != tenantID {
		return nil, shared.ErrNotFound.WithDetail("entry_id", id.String())
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeAutoEntryRepo) FindByDocument(_ context.Context, tenantID, documentID uuid.UUID) (*accounting.AutoEntry, error) {
	for _, entry := range r.entries {
		if entry.TenantID == tenantID && entry.DocumentID == documentID {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAutoEntryRepo) FindPendingReview(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]accounting.AutoEntry, int64, error) {
	out := make([]accounting.AutoEntry, 0)
	for _, entry := range r.entries {
		if entry.TenantID == tenantID && entry.Status == accounting.AutoEntryStatusDraft && entry.RequiresReview {
			out = append(out, *entry)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAutoEntryRepo) Save(_ context.Context, entry *accounting.AutoEntry) error {
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

type fakeJournalEntryRepo struct {
	entries map[uuid.UUID]*accounting.JournalEntry
	seq     int
}

func newFakeJournalEntryRepo() *fakeJournalEntryRepo {
	return &fakeJournalEntryRepo{entries: make(map[uuid.UUID]*accounting.JournalEntry)}
}

func (r *fakeJournalEntryRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*accounting.JournalEntry, error) {
	entry, ok := r.entries[id]
	if !ok || entry.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return entry, nil
}

func (r *fakeJournalEntryRepo) GenerateEntryNumber(_ context.Context, _ uuid.UUID, journalCode string) (string, error) {
	r.seq++
	return fmt.Sprintf("%s-2026-%06d", journalCode, r.seq), nil
}

func (r *fakeJournalEntryRepo) Save(_ context.Context, entry *accounting.JournalEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

type fakeAlertRepo struct {
	alerts []*accounting.AccountingAlert
}

func (r *fakeAlertRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*accounting.AccountingAlert, error) {
	for _, a := range r.alerts {
		if a.TenantID == tenantID && a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeAlertRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ accounting.AlertFilter) ([]accounting.AccountingAlert, int64, error) {
	out := make([]accounting.AccountingAlert, 0)
	for _, a := range r.alerts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAlertRepo) Save(_ context.Context, alert *accounting.AccountingAlert) error {
	for i, existing := range r.alerts {
		if existing.ID == alert.ID {
			r.alerts[i] = alert
			return nil
		}
	}
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *fakeAlertRepo) ofType(alertType accounting.AlertType) []*accounting.AccountingAlert {
	out := make([]*accounting.AccountingAlert, 0)
	for _, a := range r.alerts {
		if a.AlertType == alertType {
			out = append(out, a)
		}
	}
	return out
}

type fakeObjectStorage struct {
	objects map[string][]byte
	getErr  error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (s *fakeObjectStorage) Put(_ context.Context, key string, content []byte, _ string) error {
	s.objects[key] = content
	return nil
}

func (s *fakeObjectStorage) Get(_ context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	content, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return content, nil
}

func (s *fakeObjectStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

type fakeOCREngine struct {
	text string
	err  error
}

func (e *fakeOCREngine) ExtractText(_ context.Context, _ []byte, _ string) (OCRText, error) {
	if e.err != nil {
		return OCRText{}, e.err
	}
	return OCRText{Engine: "stub", Text: e.text}, nil
}
