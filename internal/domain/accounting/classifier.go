package accounting

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ClassificationResult is the output of the rule-based classifier
type ClassificationResult struct {
	DocumentType     DocumentType
	Score            float64 // 0-100
	ConfidenceLevel  ConfidenceLevel
	SuggestedAccount string
	SuggestedJournal string
	SuggestedTaxCode string
	KeywordHits      []string
}

// typeKeyword maps a keyword to the document type it indicates. Strength
// distinguishes unambiguous markers ("avoir") from generic ones ("total").
type typeKeyword struct {
	keyword  string
	docType  DocumentType
	strength float64
}

// Evaluated in order; "avoir" must come before "facture" because credit
// notes routinely reference their original invoice.
var typeKeywords = []typeKeyword{
	{"avoir", DocumentTypeCreditNote, 1.0},
	{"credit note", DocumentTypeCreditNote, 1.0},
	{"note de frais", DocumentTypeExpenseNote, 1.0},
	{"expense report", DocumentTypeExpenseNote, 1.0},
	{"devis", DocumentTypeQuote, 1.0},
	{"quotation", DocumentTypeQuote, 1.0},
	{"bon de commande", DocumentTypePurchaseOrder, 1.0},
	{"purchase order", DocumentTypePurchaseOrder, 1.0},
	{"facture", DocumentTypeInvoiceReceived, 1.0},
	{"invoice", DocumentTypeInvoiceReceived, 1.0},
	{"reçu", DocumentTypeExpenseNote, 0.6},
	{"ticket", DocumentTypeExpenseNote, 0.5},
}

// outgoingMarkers flip an invoice from received to sent
var outgoingMarkers = []string{
	"votre règlement", "votre reglement", "merci de votre confiance",
	"facture émise", "facture emise", "nos conditions de vente",
}

// Key fields whose presence drives the completeness half of the score
var completenessFields = []string{
	FieldAmountTotal, FieldDocumentDate, FieldInvoiceNumber, FieldSIRET,
}

// Score weights. The split between keyword evidence and field completeness
// is fixed; there is no learning loop adjusting it.
const (
	keywordWeight      = 0.55
	completenessWeight = 0.45
	consistencyBonus   = 0.05
)

// DocumentClassifier determines document type and suggests ledger mappings
// from keyword evidence and extracted-field completeness.
type DocumentClassifier struct{}

// NewDocumentClassifier creates a DocumentClassifier
func NewDocumentClassifier() *DocumentClassifier {
	return &DocumentClassifier{}
}

// Classify scores the OCR text and extracted fields into a typed result.
func (c *DocumentClassifier) Classify(text string, fields []ExtractedField) ClassificationResult {
	lower := strings.ToLower(text)

	docType, keywordScore, hits := c.matchType(lower)

	completeness := c.completeness(fields)
	score := keywordWeight*keywordScore + completenessWeight*completeness
	if amountsConsistent(fields) {
		score += consistencyBonus
	}
	score = math.Round(math.Min(score, 1.0) * 100)

	result := ClassificationResult{
		DocumentType:    docType,
		Score:           score,
		ConfidenceLevel: ConfidenceLevelForScore(score),
		KeywordHits:     hits,
	}
	c.suggest(&result, lower)
	return result
}

func (c *DocumentClassifier) matchType(lower string) (DocumentType, float64, []string) {
	for _, tk := range typeKeywords {
		if !strings.Contains(lower, tk.keyword) {
			continue
		}
		hits := []string{tk.keyword}
		docType := tk.docType
		if docType == DocumentTypeInvoiceReceived {
			for _, marker := range outgoingMarkers {
				if strings.Contains(lower, marker) {
					docType = DocumentTypeInvoiceSent
					hits = append(hits, marker)
					break
				}
			}
		}
		return docType, tk.strength, hits
	}
	return DocumentTypeUnknown, 0, nil
}

// completeness is the confidence-weighted fraction of key fields present.
func (c *DocumentClassifier) completeness(fields []ExtractedField) float64 {
	byName := make(map[string]ExtractedField, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	var sum float64
	for _, name := range completenessFields {
		if f, ok := byName[name]; ok {
			sum += f.Confidence
		} else if name == FieldSIRET {
			// a VAT number is an acceptable substitute for SIRET
			if f, ok := byName[FieldVATNumber]; ok {
				sum += f.Confidence
			}
		}
	}
	return sum / float64(len(completenessFields))
}

// amountsConsistent checks HT + TVA == TTC among extracted amounts.
func amountsConsistent(fields []ExtractedField) bool {
	amounts := make(map[string]decimal.Decimal, 3)
	for _, f := range fields {
		switch f.Name {
		case FieldAmountUntaxed, FieldAmountTax, FieldAmountTotal:
			v, err := decimal.NewFromString(f.Value)
			if err != nil {
				return false
			}
			amounts[f.Name] = v
		}
	}
	ht, okHT := amounts[FieldAmountUntaxed]
	tva, okTVA := amounts[FieldAmountTax]
	ttc, okTTC := amounts[FieldAmountTotal]
	if !okHT || !okTVA || !okTTC {
		return false
	}
	return ht.Add(tva).Sub(ttc).Abs().LessThanOrEqual(decimal.NewFromFloat(0.02))
}

func (c *DocumentClassifier) suggest(result *ClassificationResult, lower string) {
	result.SuggestedJournal = JournalForType(result.DocumentType)
	switch result.DocumentType {
	case DocumentTypeInvoiceSent:
		result.SuggestedAccount = SuggestRevenueAccount(lower)
	case DocumentTypeInvoiceReceived, DocumentTypeCreditNote, DocumentTypeExpenseNote:
		result.SuggestedAccount = SuggestExpenseAccount(lower)
	}
	result.SuggestedTaxCode = suggestTaxCode(lower)
}

// suggestTaxCode reads the VAT rate printed on the document when present.
func suggestTaxCode(lower string) string {
	switch {
	case strings.Contains(lower, "20%") || strings.Contains(lower, "20,00%") || strings.Contains(lower, "20.00%"):
		return TaxCodeStandard
	case strings.Contains(lower, "10%") || strings.Contains(lower, "10,00%"):
		return TaxCodeIntermediate
	case strings.Contains(lower, "5,5%") || strings.Contains(lower, "5.5%"):
		return TaxCodeReduced
	case strings.Contains(lower, "exonération") || strings.Contains(lower, "exoneration") || strings.Contains(lower, "autoliquidation"):
		return TaxCodeExempt
	default:
		return TaxCodeStandard
	}
}
