package accounting

import (
	"context"
	"testing"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedClassification(t *testing.T, repo *fakeClassificationRepo, tenantID, documentID uuid.UUID, score float64) *accounting.AIClassification {
	t.Helper()
	c, err := accounting.NewAIClassification(tenantID, documentID, accounting.ClassificationResult{
		DocumentType:     accounting.DocumentTypeInvoiceReceived,
		Score:            score,
		ConfidenceLevel:  accounting.ConfidenceMedium,
		SuggestedAccount: accounting.AccountPurchases,
		SuggestedJournal: accounting.JournalPurchases,
		KeywordHits:      []string{"facture", "tva"},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), c))
	return c
}

func TestClassificationService_CorrectClassification(t *testing.T) {
	repo := &fakeClassificationRepo{}
	svc := NewClassificationService(repo)
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()

	t.Run("records a correction and keeps the prediction", func(t *testing.T) {
		c := seedClassification(t, repo, tenantID, uuid.New(), 85)

		resp, err := svc.CorrectClassification(ctx, tenantID, c.ID, userID, CorrectClassificationRequest{
			CorrectedType:    string(accounting.DocumentTypeCreditNote),
			CorrectedAccount: "401000",
		})
		require.NoError(t, err)
		assert.True(t, resp.Corrected)
		assert.Equal(t, string(accounting.DocumentTypeCreditNote), resp.CorrectedType)
		assert.Equal(t, "401000", resp.CorrectedAccount)
		assert.Equal(t, string(accounting.DocumentTypeInvoiceReceived), resp.PredictedType)
		require.NotNil(t, resp.CorrectedBy)
		assert.Equal(t, userID, *resp.CorrectedBy)
	})

	t.Run("second correction is refused", func(t *testing.T) {
		c := seedClassification(t, repo, tenantID, uuid.New(), 85)

		_, err := svc.CorrectClassification(ctx, tenantID, c.ID, userID, CorrectClassificationRequest{
			CorrectedAccount: "607100",
		})
		require.NoError(t, err)

		_, err = svc.CorrectClassification(ctx, tenantID, c.ID, userID, CorrectClassificationRequest{
			CorrectedAccount: "606400",
		})
		assert.Error(t, err)
	})

	t.Run("invalid corrected type is refused", func(t *testing.T) {
		c := seedClassification(t, repo, tenantID, uuid.New(), 85)

		_, err := svc.CorrectClassification(ctx, tenantID, c.ID, userID, CorrectClassificationRequest{
			CorrectedType: "RECEIPT",
		})
		assert.Error(t, err)
	})

	t.Run("unknown classification", func(t *testing.T) {
		_, err := svc.CorrectClassification(ctx, tenantID, uuid.New(), userID, CorrectClassificationRequest{
			CorrectedAccount: "607100",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("other tenants cannot correct", func(t *testing.T) {
		c := seedClassification(t, repo, tenantID, uuid.New(), 85)

		_, err := svc.CorrectClassification(ctx, uuid.New(), c.ID, userID, CorrectClassificationRequest{
			CorrectedAccount: "607100",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestClassificationService_History(t *testing.T) {
	repo := &fakeClassificationRepo{}
	svc := NewClassificationService(repo)
	ctx := context.Background()
	tenantID := uuid.New()
	documentID := uuid.New()

	first := seedClassification(t, repo, tenantID, documentID, 60)
	second := seedClassification(t, repo, tenantID, documentID, 85)
	seedClassification(t, repo, tenantID, uuid.New(), 90)

	t.Run("latest attempt is authoritative", func(t *testing.T) {
		resp, err := svc.GetLatestForDocument(ctx, tenantID, documentID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, resp.ID)
		assert.Equal(t, 85.0, resp.ConfidenceScore)
	})

	t.Run("history returns all attempts for the document", func(t *testing.T) {
		history, err := svc.GetHistoryForDocument(ctx, tenantID, documentID)
		require.NoError(t, err)
		require.Len(t, history, 2)

		ids := []uuid.UUID{history[0].ID, history[1].ID}
		assert.Contains(t, ids, first.ID)
		assert.Contains(t, ids, second.ID)
	})

	t.Run("no attempts means not found", func(t *testing.T) {
		_, err := svc.GetLatestForDocument(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
