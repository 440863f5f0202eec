package accounting

import (
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AIClassification is one classification attempt for a document. Attempts
// are kept as history; the latest one is authoritative. Human corrections
// only touch the correction fields, the original prediction is preserved.
type AIClassification struct {
	shared.TenantAggregateRoot
	DocumentID       uuid.UUID
	PredictedType    DocumentType
	SuggestedAccount string
	SuggestedJournal string
	SuggestedTaxCode string
	ConfidenceLevel  ConfidenceLevel
	ConfidenceScore  float64
	KeywordHits      []string
	Corrected        bool
	CorrectedType    DocumentType
	CorrectedAccount string
	CorrectedBy      *uuid.UUID
}

// NewAIClassification records one classification attempt
func NewAIClassification(tenantID, documentID uuid.UUID, result ClassificationResult) (*AIClassification, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document ID is required")
	}
	return &AIClassification{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentID:          documentID,
		PredictedType:       result.DocumentType,
		SuggestedAccount:    result.SuggestedAccount,
		SuggestedJournal:    result.SuggestedJournal,
		SuggestedTaxCode:    result.SuggestedTaxCode,
		ConfidenceLevel:     result.ConfidenceLevel,
		ConfidenceScore:     result.Score,
		KeywordHits:         result.KeywordHits,
	}, nil
}

// RecordCorrection captures a human correction of the prediction. The
// correction is stored for reference only; it does not feed back into
// future classifications.
func (c *AIClassification) RecordCorrection(correctedType DocumentType, correctedAccount string, userID uuid.UUID) error {
	if c.Corrected {
		return shared.ErrInvalidState.WithDetail("reason", "classification already corrected")
	}
	if correctedType != "" && !correctedType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Invalid corrected document type: "+string(correctedType))
	}
	if correctedType == "" && correctedAccount == "" {
		return shared.NewDomainError("INVALID_INPUT", "A corrected type or account is required")
	}
	c.Corrected = true
	c.CorrectedType = correctedType
	c.CorrectedAccount = correctedAccount
	c.CorrectedBy = &userID
	return nil
}

// EffectiveType returns the corrected type when present, the prediction otherwise.
func (c *AIClassification) EffectiveType() DocumentType {
	if c.Corrected && c.CorrectedType != "" {
		return c.CorrectedType
	}
	return c.PredictedType
}

// EffectiveAccount returns the corrected account when present, the suggestion otherwise.
func (c *AIClassification) EffectiveAccount() string {
	if c.Corrected && c.CorrectedAccount != "" {
		return c.CorrectedAccount
	}
	return c.SuggestedAccount
}
