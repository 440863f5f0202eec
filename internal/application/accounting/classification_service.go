package accounting

import (
	"context"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/google/uuid"
)

// ClassificationService exposes classification history and corrections.
type ClassificationService struct {
	classRepo accounting.ClassificationRepository
}

// NewClassificationService creates a new ClassificationService
func NewClassificationService(classRepo accounting.ClassificationRepository) *ClassificationService {
	return &ClassificationService{classRepo: classRepo}
}

// ClassificationResponse represents a classification attempt in API responses
type ClassificationResponse struct {
	ID               uuid.UUID  `json:"id"`
	DocumentID       uuid.UUID  `json:"document_id"`
	PredictedType    string     `json:"predicted_type"`
	SuggestedAccount string     `json:"suggested_account,omitempty"`
	SuggestedJournal string     `json:"suggested_journal,omitempty"`
	SuggestedTaxCode string     `json:"suggested_tax_code,omitempty"`
	ConfidenceLevel  string     `json:"confidence_level"`
	ConfidenceScore  float64    `json:"confidence_score"`
	KeywordHits      []string   `json:"keyword_hits,omitempty"`
	Corrected        bool       `json:"corrected"`
	CorrectedType    string     `json:"corrected_type,omitempty"`
	CorrectedAccount string     `json:"corrected_account,omitempty"`
	CorrectedBy      *uuid.UUID `json:"corrected_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// CorrectClassificationRequest represents a human correction
type CorrectClassificationRequest struct {
	CorrectedType    string `json:"corrected_type"`
	CorrectedAccount string `json:"corrected_account"`
}

// CorrectClassification records a human correction. The correction is kept
// for reference; the prediction itself is never rewritten and nothing feeds
// back into future runs.
func (s *ClassificationService) CorrectClassification(ctx context.Context, tenantID, id, userID uuid.UUID, req CorrectClassificationRequest) (*ClassificationResponse, error) {
	classification, err := s.classRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := classification.RecordCorrection(accounting.DocumentType(req.CorrectedType), req.CorrectedAccount, userID); err != nil {
		return nil, err
	}
	if err := s.classRepo.Save(ctx, classification); err != nil {
		return nil, err
	}
	return toClassificationResponse(classification), nil
}

// GetLatestForDocument gets the authoritative classification for a document
func (s *ClassificationService) GetLatestForDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*ClassificationResponse, error) {
	classification, err := s.classRepo.FindLatestForDocument(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	return toClassificationResponse(classification), nil
}

// GetHistoryForDocument gets all classification attempts for a document,
// newest first
func (s *ClassificationService) GetHistoryForDocument(ctx context.Context, tenantID, documentID uuid.UUID) ([]ClassificationResponse, error) {
	history, err := s.classRepo.FindHistoryForDocument(ctx, tenantID, documentID)
	if err != nil {
		return nil, err
	}
	responses := make([]ClassificationResponse, len(history))
	for i := range history {
		responses[i] = *toClassificationResponse(&history[i])
	}
	return responses, nil
}

func toClassificationResponse(c *accounting.AIClassification) *ClassificationResponse {
	return &ClassificationResponse{
		ID:               c.ID,
		DocumentID:       c.DocumentID,
		PredictedType:    string(c.PredictedType),
		SuggestedAccount: c.SuggestedAccount,
		SuggestedJournal: c.SuggestedJournal,
		SuggestedTaxCode: c.SuggestedTaxCode,
		ConfidenceLevel:  string(c.ConfidenceLevel),
		ConfidenceScore:  c.ConfidenceScore,
		KeywordHits:      c.KeywordHits,
		Corrected:        c.Corrected,
		CorrectedType:    string(c.CorrectedType),
		CorrectedAccount: c.CorrectedAccount,
		CorrectedBy:      c.CorrectedBy,
		CreatedAt:        c.CreatedAt,
	}
}
