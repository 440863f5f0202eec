package banking

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
	"github.com/azalscore/backend/internal/domain/banking"
)

type reconciliationFixture struct {
	service     *ReconciliationService
	txRepo      *fakeTransactionRepo
	ruleRepo    *fakeRuleRepo
	historyRepo *fakeHistoryRepo
	docRepo     *fakeDocRepo
	tenantID    uuid.UUID
	accountID   uuid.UUID
}

func newReconciliationFixture() *reconciliationFixture {
	f := &reconciliationFixture{
		txRepo:      newFakeTransactionRepo(),
		ruleRepo:    newFakeRuleRepo(),
		historyRepo: &fakeHistoryRepo{},
		docRepo:     newFakeDocRepo(),
		tenantID:    uuid.New(),
		accountID:   uuid.New(),
	}
	f.service = NewReconciliationService(f.txRepo, f.ruleRepo, f.historyRepo, f.docRepo, zap.NewNop())
	return f
}

func (f *reconciliationFixture) addTransaction(t *testing.T, externalID, amount, label, counterparty string) *banking.SyncedTransaction {
	t.Helper()
	tx, err := banking.NewSyncedTransaction(f.tenantID, f.accountID, externalID,
		time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString(amount), banking.DirectionDebit, label, "", counterparty)
	require.NoError(t, err)
	require.NoError(t, f.txRepo.Save(context.Background(), tx))
	return tx
}

func (f *reconciliationFixture) addOpenDocument(t *testing.T, amount, invoiceNumber, partner string) *accounting.AccountingDocument {
	t.Helper()
	doc, err := accounting.NewAccountingDocument(f.tenantID, "DOC-"+invoiceNumber,
		accounting.DocumentTypeInvoiceReceived, accounting.DocumentSourceUpload, "f.pdf")
	require.NoError(t, err)
	doc.InvoiceNumber = invoiceNumber
	doc.PartnerName = partner
	doc.SetAmounts(decimal.Zero, decimal.Zero, decimal.RequireFromString(amount))
	require.NoError(t, f.docRepo.Save(context.Background(), doc))
	return doc
}

func TestReconciliationService_AutoReconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("exact amount and reference auto match", func(t *testing.T) {
		f := newReconciliationFixture()
		doc := f.addOpenDocument(t, "1200.00", "F-2026-0042", "Atelier Moderne")
		tx := f.addTransaction(t, "tx-1", "1200.00", "VIR SEPA F-2026-0042", "ATELIER MODERNE")

		result, err := f.service.AutoReconcile(ctx, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 1, result.Matched)
		assert.Equal(t, 0, result.Pending)

		stored, err := f.txRepo.FindByIDForTenant(ctx, f.tenantID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, banking.ReconciliationMatched, stored.Status)
		require.NotNil(t, stored.MatchedDocumentID)
		assert.Equal(t, doc.ID, *stored.MatchedDocumentID)
		assert.Equal(t, banking.MatchModeAuto, stored.MatchedBy)

		history, err := f.historyRepo.FindForTransaction(ctx, f.tenantID, tx.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "MATCHED", history[0].Action)
	})

	t.Run("amount only match goes to pending", func(t *testing.T) {
		f := newReconciliationFixture()
		f.addOpenDocument(t, "1200.00", "F-2026-0042", "Atelier Moderne")
		tx := f.addTransaction(t, "tx-1", "1200.00", "VIR SEPA", "")

		result, err := f.service.AutoReconcile(ctx, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Matched)
		assert.Equal(t, 1, result.Pending)

		stored, err := f.txRepo.FindByIDForTenant(ctx, f.tenantID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, banking.ReconciliationPending, stored.Status)
	})

	t.Run("rules win over the matcher", func(t *testing.T) {
		f := newReconciliationFixture()
		// a document the matcher would otherwise pair with
		f.addOpenDocument(t, "89.90", "F-2026-0050", "Free Mobile")
		tx := f.addTransaction(t, "tx-1", "89.90", "PRLV FREE MOBILE", "FREE MOBILE")

		rule, err := banking.NewReconciliationRule(f.tenantID, "Abonnement mobile",
			banking.PatternSubstring, "free mobile", "626000", 10)
		require.NoError(t, err)
		require.NoError(t, f.ruleRepo.Save(ctx, rule))

		result, err := f.service.AutoReconcile(ctx, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.ByRule)
		assert.Equal(t, 0, result.Matched)

		stored, err := f.txRepo.FindByIDForTenant(ctx, f.tenantID, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, banking.ReconciliationIgnored, stored.Status)
		assert.Equal(t, banking.MatchModeRule, stored.MatchedBy)
	})

	t.Run("nothing to match", func(t *testing.T) {
		f := newReconciliationFixture()
		f.addTransaction(t, "tx-1", "12.34", "CB BOULANGERIE", "")

		result, err := f.service.AutoReconcile(ctx, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Processed)
		assert.Equal(t, 0, result.Matched)
		assert.Equal(t, 0, result.Pending)
	})
}

func TestReconciliationService_Suggestions(t *testing.T) {
	ctx := context.Background()
	f := newReconciliationFixture()
	exact := f.addOpenDocument(t, "1200.00", "F-2026-0042", "Atelier Moderne")
	f.addOpenDocument(t, "37.00", "F-2026-0100", "Papeterie Duval")
	tx := f.addTransaction(t, "tx-1", "1200.00", "VIR F-2026-0042", "ATELIER MODERNE")

	suggestions, err := f.service.Suggestions(ctx, f.tenantID, tx.ID)
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, exact.ID, suggestions[0].DocumentID)
	assert.True(t, suggestions[0].ExactAmount)
	assert.True(t, suggestions[0].ReferenceHit)
}

func TestReconciliationService_ManualMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("links transaction and document", func(t *testing.T) {
		f := newReconciliationFixture()
		doc := f.addOpenDocument(t, "500.00", "F-2026-0077", "Cabinet Conseil")
		tx := f.addTransaction(t, "tx-1", "480.00", "VIR", "")
		userID := uuid.New()

		resp, err := f.service.ManualMatch(ctx, f.tenantID, tx.ID, doc.ID, &userID)
		require.NoError(t, err)
		assert.Equal(t, string(banking.ReconciliationMatched), resp.Status)
		assert.Equal(t, string(banking.MatchModeManual), resp.MatchedBy)
		assert.Equal(t, 1.0, resp.MatchConfidence)

		history, err := f.historyRepo.FindForTransaction(ctx, f.tenantID, tx.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		require.NotNil(t, history[0].PerformedBy)
		assert.Equal(t, userID, *history[0].PerformedBy)
	})

	t.Run("unknown document refused", func(t *testing.T) {
		f := newReconciliationFixture()
		tx := f.addTransaction(t, "tx-1", "480.00", "VIR", "")
		_, err := f.service.ManualMatch(ctx, f.tenantID, tx.ID, uuid.New(), nil)
		assert.Error(t, err)
	})
}

func TestReconciliationService_Unmatch(t *testing.T) {
	ctx := context.Background()
	f := newReconciliationFixture()
	doc := f.addOpenDocument(t, "500.00", "F-2026-0077", "Cabinet Conseil")
	tx := f.addTransaction(t, "tx-1", "500.00", "VIR", "")

	_, err := f.service.ManualMatch(ctx, f.tenantID, tx.ID, doc.ID, nil)
	require.NoError(t, err)

	resp, err := f.service.Unmatch(ctx, f.tenantID, tx.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, string(banking.ReconciliationUnmatched), resp.Status)
	assert.Nil(t, resp.MatchedDocumentID)

	history, err := f.historyRepo.FindForTransaction(ctx, f.tenantID, tx.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "UNMATCHED", history[1].Action)

	// already unmatched
	_, err = f.service.Unmatch(ctx, f.tenantID, tx.ID, nil)
	assert.Error(t, err)
}
