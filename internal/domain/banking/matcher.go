package banking

import (
	"sort"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OpenDocument is the matcher's view of an open accounting document. The
// banking context deliberately does not import the accounting aggregate;
// the application layer projects documents into this shape.
type OpenDocument struct {
	ID            uuid.UUID
	Reference     string // document number
	InvoiceNumber string
	PartnerName   string
	AmountTotal   decimal.Decimal
}

// MatchDecision is the matcher's verdict for a transaction/document pair
type MatchDecision string

const (
	DecisionAutoMatch MatchDecision = "AUTO_MATCH"
	DecisionPending   MatchDecision = "PENDING"
	DecisionNone      MatchDecision = "NONE"
)

// MatchSuggestion is one scored transaction/document pairing
type MatchSuggestion struct {
	Document     OpenDocument
	Confidence   float64
	ExactAmount  bool
	PartialPay   bool
	ReferenceHit bool
	NameScore    float64
	Decision     MatchDecision
}

// Score weights. Amount equality dominates, reference presence is strong
// corroboration, name similarity only breaks ties.
const (
	amountWeight    = 0.6
	referenceWeight = 0.3
	nameWeight      = 0.1

	pendingThreshold = 0.45
)

var amountTolerance = decimal.NewFromFloat(0.01)

// TransactionMatcher scores bank transactions against open documents.
type TransactionMatcher struct{}

// NewTransactionMatcher creates a TransactionMatcher
func NewTransactionMatcher() *TransactionMatcher {
	return &TransactionMatcher{}
}

// Evaluate scores one transaction/document pair.
func (m *TransactionMatcher) Evaluate(tx *SyncedTransaction, doc OpenDocument) MatchSuggestion {
	s := MatchSuggestion{Document: doc}

	diff := tx.Amount.Sub(doc.AmountTotal).Abs()
	var amountScore float64
	switch {
	case diff.LessThanOrEqual(amountTolerance):
		s.ExactAmount = true
		amountScore = 1.0
	case tx.Amount.IsPositive() && tx.Amount.LessThan(doc.AmountTotal):
		// transaction settles part of the document
		s.PartialPay = true
		ratio, _ := tx.Amount.Div(doc.AmountTotal).Float64()
		amountScore = 0.5 * ratio
	default:
		amountScore = 0
	}

	haystack := strings.ToLower(tx.Label + " " + tx.Reference)
	for _, ref := range []string{doc.InvoiceNumber, doc.Reference} {
		if ref != "" && strings.Contains(haystack, strings.ToLower(ref)) {
			s.ReferenceHit = true
			break
		}
	}

	s.NameScore = nameSimilarity(tx.Counterparty, doc.PartnerName)

	var refScore float64
	if s.ReferenceHit {
		refScore = 1.0
	}
	s.Confidence = amountWeight*amountScore + referenceWeight*refScore + nameWeight*s.NameScore

	switch {
	case s.ExactAmount && s.ReferenceHit:
		s.Decision = DecisionAutoMatch
	case s.PartialPay && (s.ReferenceHit || s.NameScore >= 0.5):
		s.Decision = DecisionPending
	case s.Confidence >= pendingThreshold:
		s.Decision = DecisionPending
	default:
		s.Decision = DecisionNone
	}
	return s
}

// Suggestions scores the transaction against every open document and
// returns the viable pairings, best first.
func (m *TransactionMatcher) Suggestions(tx *SyncedTransaction, docs []OpenDocument) []MatchSuggestion {
	suggestions := make([]MatchSuggestion, 0, len(docs))
	for _, doc := range docs {
		s := m.Evaluate(tx, doc)
		if s.Decision != DecisionNone {
			suggestions = append(suggestions, s)
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// BestMatch returns the strongest suggestion, if any.
func (m *TransactionMatcher) BestMatch(tx *SyncedTransaction, docs []OpenDocument) (MatchSuggestion, bool) {
	suggestions := m.Suggestions(tx, docs)
	if len(suggestions) == 0 {
		return MatchSuggestion{}, false
	}
	return suggestions[0], true
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldName lowercases and strips diacritics so "Société Générale" and
// "SOCIETE GENERALE" compare equal.
func foldName(s string) string {
	folded, _, err := transform.String(foldTransformer, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// nameSimilarity is the token-overlap fraction between two folded names.
func nameSimilarity(a, b string) float64 {
	tokensA := tokenize(foldName(a))
	tokensB := tokenize(foldName(b))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}
	common := 0
	for _, t := range tokensA {
		if setB[t] {
			common++
		}
	}
	smaller := len(tokensA)
	if len(tokensB) < smaller {
		smaller = len(tokensB)
	}
	return float64(common) / float64(smaller)
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
