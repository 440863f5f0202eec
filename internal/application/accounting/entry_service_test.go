package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
)

type entryServiceFixture struct {
	service     *EntryService
	entryRepo   *fakeAutoEntryRepo
	journalRepo *fakeJournalEntryRepo
	docRepo     *fakeDocumentRepo
	tenantID    uuid.UUID
}

func newEntryServiceFixture() *entryServiceFixture {
	f := &entryServiceFixture{
		entryRepo:   newFakeAutoEntryRepo(),
		journalRepo: newFakeJournalEntryRepo(),
		docRepo:     newFakeDocumentRepo(),
		tenantID:    uuid.New(),
	}
	f.service = NewEntryService(f.entryRepo, f.journalRepo, f.docRepo, zap.NewNop())
	return f
}

// pendingProposal seeds a PENDING_VALIDATION document with a draft proposal.
func (f *entryServiceFixture) pendingProposal(t *testing.T) (*accounting.AccountingDocument, *accounting.AutoEntry) {
	t.Helper()
	ctx := context.Background()

	doc, err := accounting.NewAccountingDocument(f.tenantID, "DOC-2026-0001",
		accounting.DocumentTypeInvoiceReceived, accounting.DocumentSourceUpload, "facture.pdf")
	require.NoError(t, err)
	doc.InvoiceNumber = "F-2026-0042"
	docDate := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	doc.DocumentDate = &docDate
	require.NoError(t, doc.StartProcessing())
	require.NoError(t, doc.MarkAnalyzed())
	require.NoError(t, doc.SubmitForValidation())
	require.NoError(t, f.docRepo.Save(ctx, doc))

	lines := []accounting.EntryLine{
		{AccountCode: accounting.AccountPurchases, Label: "Atelier Moderne", Debit: decimal.NewFromInt(1000)},
		{AccountCode: accounting.AccountVATDeductible, Label: "Atelier Moderne", Debit: decimal.NewFromInt(200)},
		{AccountCode: accounting.AccountSuppliers, Label: "Atelier Moderne", Credit: decimal.NewFromInt(1200)},
	}
	entry, err := accounting.NewAutoEntry(f.tenantID, doc.ID, accounting.JournalPurchases,
		lines, accounting.ConfidenceMedium, 85)
	require.NoError(t, err)
	require.NoError(t, f.entryRepo.Save(ctx, entry))
	return doc, entry
}

func TestEntryService_ValidateEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the proposal to the ledger", func(t *testing.T) {
		f := newEntryServiceFixture()
		doc, entry := f.pendingProposal(t)
		userID := uuid.New()

		resp, err := f.service.ValidateEntry(ctx, f.tenantID, entry.ID, &userID)
		require.NoError(t, err)

		assert.Equal(t, string(accounting.AutoEntryStatusPosted), resp.Status)
		require.NotNil(t, resp.JournalEntryID)
		assert.NotNil(t, resp.PostedAt)

		posted, err := f.journalRepo.FindByIDForTenant(ctx, f.tenantID, *resp.JournalEntryID)
		require.NoError(t, err)
		assert.Equal(t, "ACH-2026-000001", posted.EntryNumber)
		assert.Equal(t, accounting.JournalPurchases, posted.JournalCode)
		assert.Equal(t, "F-2026-0042", posted.Reference)
		assert.True(t, posted.EntryDate.Equal(*doc.DocumentDate))
		assert.True(t, posted.TotalDebit().Equal(decimal.NewFromInt(1200)))
		require.NotNil(t, posted.PostedBy)
		assert.Equal(t, userID, *posted.PostedBy)

		stored, err := f.docRepo.FindByIDForTenant(ctx, f.tenantID, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.DocumentStatusAccounted, stored.Status)
		require.NotNil(t, stored.ValidatedBy)
		assert.Equal(t, userID, *stored.ValidatedBy)
	})

	t.Run("posted proposal cannot be validated twice", func(t *testing.T) {
		f := newEntryServiceFixture()
		_, entry := f.pendingProposal(t)

		_, err := f.service.ValidateEntry(ctx, f.tenantID, entry.ID, nil)
		require.NoError(t, err)
		_, err = f.service.ValidateEntry(ctx, f.tenantID, entry.ID, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)

		// the refused second validation must not leave an orphan posting
		assert.Len(t, f.journalRepo.entries, 1)
	})

	t.Run("unknown entry", func(t *testing.T) {
		f := newEntryServiceFixture()
		_, err := f.service.ValidateEntry(ctx, f.tenantID, uuid.New(), nil)
		assert.Error(t, err)
	})
}

func TestEntryService_BulkValidateEntries(t *testing.T) {
	f := newEntryServiceFixture()
	_, entry := f.pendingProposal(t)
	missing := uuid.New()

	results := f.service.BulkValidateEntries(context.Background(), f.tenantID,
		[]uuid.UUID{entry.ID, missing}, nil)

	require.Len(t, results, 2)
	assert.True(t, results[0].Posted)
	assert.Empty(t, results[0].Error)
	assert.False(t, results[1].Posted)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, missing, results[1].EntryID)
}

func TestEntryService_RejectEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects proposal and document together", func(t *testing.T) {
		f := newEntryServiceFixture()
		doc, entry := f.pendingProposal(t)

		resp, err := f.service.RejectEntry(ctx, f.tenantID, entry.ID, "wrong account")
		require.NoError(t, err)
		assert.Equal(t, string(accounting.AutoEntryStatusRejected), resp.Status)
		assert.Equal(t, "wrong account", resp.RejectionReason)

		stored, err := f.docRepo.FindByIDForTenant(ctx, f.tenantID, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.DocumentStatusRejected, stored.Status)
	})

	t.Run("reason required", func(t *testing.T) {
		f := newEntryServiceFixture()
		_, entry := f.pendingProposal(t)
		_, err := f.service.RejectEntry(ctx, f.tenantID, entry.ID, "")
		assert.Error(t, err)
	})
}

func TestEntryService_ListPendingReview(t *testing.T) {
	ctx := context.Background()
	f := newEntryServiceFixture()
	_, entry := f.pendingProposal(t)

	page, err := f.service.ListPendingReview(ctx, f.tenantID, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entry.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)

	// posted proposals drop out of the review queue
	_, err = f.service.ValidateEntry(ctx, f.tenantID, entry.ID, nil)
	require.NoError(t, err)
	page, err = f.service.ListPendingReview(ctx, f.tenantID, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
