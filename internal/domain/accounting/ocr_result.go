package accounting

import (
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExtractedField is one (name, value, confidence) triple produced by the
// field extractor. Confidence is a heuristic 0-1 score derived from pattern
// specificity, not a calibrated probability.
type ExtractedField struct {
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// OCRResult holds the raw engine output and extracted fields for one OCR
// pass over a document. It is immutable after creation; re-processing a
// document creates a new result.
type OCRResult struct {
	shared.TenantAggregateRoot
	DocumentID        uuid.UUID
	Engine            string
	RawText           string
	Fields            []ExtractedField
	OverallConfidence float64
}

// NewOCRResult creates an OCR result for a document
func NewOCRResult(tenantID, documentID uuid.UUID, engine, rawText string, fields []ExtractedField) (*OCRResult, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document ID is required")
	}
	if engine == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "OCR engine name is required")
	}
	return &OCRResult{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentID:          documentID,
		Engine:              engine,
		RawText:             rawText,
		Fields:              fields,
		OverallConfidence:   meanConfidence(fields),
	}, nil
}

// Field returns the extracted field with the given name, if present.
func (r *OCRResult) Field(name string) (ExtractedField, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ExtractedField{}, false
}

func meanConfidence(fields []ExtractedField) float64 {
	if len(fields) == 0 {
		return 0
	}
	var sum float64
	for _, f := range fields {
		sum += f.Confidence
	}
	return sum / float64(len(fields))
}
