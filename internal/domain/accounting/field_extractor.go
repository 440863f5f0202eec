package accounting

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical field names produced by the extractor
const (
	FieldInvoiceNumber = "invoice_number"
	FieldDocumentDate  = "document_date"
	FieldDueDate       = "due_date"
	FieldAmountUntaxed = "amount_untaxed"
	FieldAmountTax     = "amount_tax"
	FieldAmountTotal   = "amount_total"
	FieldSIRET         = "siret"
	FieldVATNumber     = "vat_number"
	FieldIBAN          = "iban"
	FieldVendorName    = "vendor_name"
)

// DateLayout is the canonical layout extracted dates are normalized to
const DateLayout = "2006-01-02"

// FieldExtractor extracts structured fields from raw OCR text using an
// ordered list of regex patterns per field. For each field the first pattern
// that yields a parseable value wins; its static confidence reflects how
// specific the pattern is, nothing more.
type FieldExtractor struct{}

// NewFieldExtractor creates a FieldExtractor
func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{}
}

type datePattern struct {
	re         *regexp.Regexp
	layout     string
	confidence float64
}

var (
	invoiceNumberPatterns = []struct {
		re         *regexp.Regexp
		confidence float64
	}{
		{regexp.MustCompile(`(?i)facture\s*(?:n[°ºo]\s*)?[:#]?\s*([A-Z0-9][A-Z0-9\-/\.]{2,24})`), 0.9},
		{regexp.MustCompile(`(?i)invoice\s*(?:no|number|#)?\s*[:#]?\s*([A-Z0-9][A-Z0-9\-/\.]{2,24})`), 0.9},
		{regexp.MustCompile(`(?i)\bn[°ºo]\s*[:.]?\s*([A-Z0-9][A-Z0-9\-/]{3,24})`), 0.6},
	}

	// Slash dates are read day-first: the platform's documents are
	// overwhelmingly French. ISO dates are unambiguous and score highest.
	datePatterns = []datePattern{
		{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), "2006-01-02", 0.95},
		{regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`), "02/01/2006", 0.85},
		{regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`), "02.01.2006", 0.8},
		{regexp.MustCompile(`\b(\d{2}-\d{2}-\d{4})\b`), "02-01-2006", 0.7},
	}

	dueDateContext = regexp.MustCompile(`(?i)(?:échéance|echeance|date\s+limite|due\s+date|payable\s+(?:avant|le))[^\d]{0,20}(\d{2}[/.\-]\d{2}[/.\-]\d{4}|\d{4}-\d{2}-\d{2})`)

	amountValue = `([\d][\d\s .,]*\d|\d)`

	amountUntaxedPatterns = []struct {
		re         *regexp.Regexp
		confidence float64
	}{
		{regexp.MustCompile(`(?i)(?:total\s+|montant\s+)?(?:ht|hors\s+taxes?)\s*[:\s]\s*` + amountValue), 0.9},
		{regexp.MustCompile(`(?i)(?:subtotal|sous[- ]total)\s*[:\s]\s*` + amountValue), 0.7},
	}
	amountTaxPatterns = []struct {
		re         *regexp.Regexp
		confidence float64
	}{
		{regexp.MustCompile(`(?i)(?:total\s+|montant\s+)?(?:tva|t\.v\.a\.?)\s*(?:\(?\d{1,2}[.,]?\d{0,2}\s*%\)?)?\s*[:\s]\s*` + amountValue), 0.9},
		{regexp.MustCompile(`(?i)(?:vat|tax)\s*[:\s]\s*` + amountValue), 0.7},
	}
	amountTotalPatterns = []struct {
		re         *regexp.Regexp
		confidence float64
	}{
		{regexp.MustCompile(`(?i)(?:total\s+|montant\s+|net\s+à\s+payer\s*)?(?:ttc|toutes\s+taxes)\s*[:\s]\s*` + amountValue), 0.9},
		{regexp.MustCompile(`(?i)net\s+à\s+payer\s*[:\s]\s*` + amountValue), 0.85},
		{regexp.MustCompile(`(?i)(?:grand\s+)?total\s*[:\s]\s*` + amountValue), 0.6},
	}

	siretPattern = regexp.MustCompile(`\b(\d{3}[\s.]?\d{3}[\s.]?\d{3}[\s.]?\d{5})\b`)
	vatPattern   = regexp.MustCompile(`\b([A-Z]{2}\s?[0-9A-Z]{2}\s?\d{9})\b`)
	ibanPattern  = regexp.MustCompile(`\b([A-Z]{2}\d{2}(?:[\s]?[A-Z0-9]{4}){2,8}(?:[\s]?[A-Z0-9]{1,4})?)\b`)

	nonDigit = regexp.MustCompile(`\D`)
)

// vatCountryPrefixes lists the intra-EU VAT country codes the extractor accepts.
var vatCountryPrefixes = map[string]bool{
	"FR": true, "DE": true, "ES": true, "IT": true, "BE": true,
	"NL": true, "LU": true, "PT": true, "AT": true, "IE": true,
}

// ibanLengths lists expected IBAN lengths by country prefix.
var ibanLengths = map[string]int{
	"FR": 27, "DE": 22, "ES": 24, "IT": 27, "BE": 16,
	"NL": 18, "LU": 20, "CH": 21, "GB": 22, "PT": 25,
}

// ExtractFields runs all field patterns over the OCR text and returns the
// matched fields with their heuristic confidences.
func (e *FieldExtractor) ExtractFields(text string) []ExtractedField {
	fields := make([]ExtractedField, 0, 10)

	if f, ok := e.extractInvoiceNumber(text); ok {
		fields = append(fields, f)
	}
	if f, ok := e.extractDueDate(text); ok {
		fields = append(fields, f)
	}
	if f, ok := e.extractDocumentDate(text); ok {
		fields = append(fields, f)
	}
	for _, amt := range []struct {
		name     string
		patterns []struct {
			re         *regexp.Regexp
			confidence float64
		}
	}{
		{FieldAmountUntaxed, amountUntaxedPatterns},
		{FieldAmountTax, amountTaxPatterns},
		{FieldAmountTotal, amountTotalPatterns},
	} {
		if f, ok := extractAmount(text, amt.name, amt.patterns); ok {
			fields = append(fields, f)
		}
	}
	if f, ok := e.extractSIRET(text); ok {
		fields = append(fields, f)
	}
	if f, ok := e.extractVATNumber(text); ok {
		fields = append(fields, f)
	}
	if f, ok := e.extractIBAN(text); ok {
		fields = append(fields, f)
	}
	if f, ok := e.extractVendorName(text); ok {
		fields = append(fields, f)
	}
	return fields
}

func (e *FieldExtractor) extractInvoiceNumber(text string) (ExtractedField, bool) {
	for _, p := range invoiceNumberPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return ExtractedField{Name: FieldInvoiceNumber, Value: strings.TrimRight(m[1], ".-/"), Confidence: p.confidence}, true
		}
	}
	return ExtractedField{}, false
}

func (e *FieldExtractor) extractDocumentDate(text string) (ExtractedField, bool) {
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			t, err := time.Parse(p.layout, m[1])
			if err != nil {
				continue
			}
			return ExtractedField{Name: FieldDocumentDate, Value: t.Format(DateLayout), Confidence: p.confidence}, true
		}
	}
	return ExtractedField{}, false
}

func (e *FieldExtractor) extractDueDate(text string) (ExtractedField, bool) {
	m := dueDateContext.FindStringSubmatch(text)
	if m == nil {
		return ExtractedField{}, false
	}
	raw := m[1]
	for _, layout := range []string{"2006-01-02", "02/01/2006", "02.01.2006", "02-01-2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return ExtractedField{Name: FieldDueDate, Value: t.Format(DateLayout), Confidence: 0.85}, true
		}
	}
	return ExtractedField{}, false
}

func extractAmount(text, name string, patterns []struct {
	re         *regexp.Regexp
	confidence float64
}) (ExtractedField, bool) {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			amount, err := ParseAmount(m[1])
			if err != nil {
				continue
			}
			return ExtractedField{Name: name, Value: amount.StringFixed(2), Confidence: p.confidence}, true
		}
	}
	return ExtractedField{}, false
}

func (e *FieldExtractor) extractSIRET(text string) (ExtractedField, bool) {
	for _, m := range siretPattern.FindAllStringSubmatch(text, -1) {
		digits := nonDigit.ReplaceAllString(m[1], "")
		if len(digits) == 14 && luhnValid(digits) {
			return ExtractedField{Name: FieldSIRET, Value: digits, Confidence: 0.95}, true
		}
	}
	return ExtractedField{}, false
}

func (e *FieldExtractor) extractVATNumber(text string) (ExtractedField, bool) {
	for _, m := range vatPattern.FindAllStringSubmatch(text, -1) {
		compact := strings.ReplaceAll(m[1], " ", "")
		if !vatCountryPrefixes[compact[:2]] {
			continue
		}
		return ExtractedField{Name: FieldVATNumber, Value: compact, Confidence: 0.9}, true
	}
	return ExtractedField{}, false
}

func (e *FieldExtractor) extractIBAN(text string) (ExtractedField, bool) {
	for _, m := range ibanPattern.FindAllStringSubmatch(text, -1) {
		compact := strings.Map(func(r rune) rune {
			if r == ' ' || r == ' ' {
				return -1
			}
			return r
		}, m[1])
		expected, known := ibanLengths[compact[:2]]
		if !known || len(compact) != expected {
			continue
		}
		if !ibanChecksumValid(compact) {
			continue
		}
		return ExtractedField{Name: FieldIBAN, Value: compact, Confidence: 0.95}, true
	}
	return ExtractedField{}, false
}

// extractVendorName takes the first header line that looks like a name:
// not mostly digits, not an amount label, reasonably short.
func (e *FieldExtractor) extractVendorName(text string) (ExtractedField, bool) {
	lines := strings.Split(text, "\n")
	for _, line := range lines[:min(8, len(lines))] {
		candidate := strings.TrimSpace(line)
		if len(candidate) < 3 || len(candidate) > 80 {
			continue
		}
		lower := strings.ToLower(candidate)
		if strings.Contains(lower, "facture") || strings.Contains(lower, "invoice") ||
			strings.Contains(lower, "devis") || strings.Contains(lower, "total") {
			continue
		}
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits*2 >= len(candidate) {
			continue
		}
		return ExtractedField{Name: FieldVendorName, Value: candidate, Confidence: 0.5}, true
	}
	return ExtractedField{}, false
}

// ParseAmount parses an amount string in French ("1 234,56", "1.234,56")
// or anglo ("1,234.56", "1234.56") notation.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.Map(func(r rune) rune {
		if r == ' ' || r == ' ' || r == '€' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma > lastDot:
		// comma is the decimal separator, dots are thousands
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastDot > lastComma:
		// dot is the decimal separator, commas are thousands
		s = strings.ReplaceAll(s, ",", "")
	}
	return decimal.NewFromString(s)
}

// luhnValid checks a numeric string with the Luhn algorithm (SIRET uses it).
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ibanChecksumValid runs the ISO 7064 mod-97 check over a compact IBAN.
func ibanChecksumValid(iban string) bool {
	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for _, r := range rearranged {
		var v int
		switch {
		case r >= '0' && r <= '9':
			v = int(r - '0')
			remainder = (remainder*10 + v) % 97
		case r >= 'A' && r <= 'Z':
			v = int(r-'A') + 10
			remainder = (remainder*100 + v) % 97
		default:
			return false
		}
	}
	return remainder == 1
}
