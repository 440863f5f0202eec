package accounting

import (
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineRole identifies which party/amount a template line represents
type LineRole string

const (
	RoleSupplier      LineRole = "supplier"       // counterparty payable (TTC)
	RoleCustomer      LineRole = "customer"       // counterparty receivable (TTC)
	RoleEmployee      LineRole = "employee"       // staff reimbursement (TTC)
	RoleExpense       LineRole = "expense"        // charge (HT)
	RoleRevenue       LineRole = "revenue"        // produit (HT)
	RoleVATDeductible LineRole = "vat_deductible" // TVA déductible
	RoleVATCollected  LineRole = "vat_collected"  // TVA collectée
)

// Side is the entry side of a template line
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// Swap returns the opposite side
func (s Side) Swap() Side {
	if s == SideDebit {
		return SideCredit
	}
	return SideDebit
}

// templateLine is one line definition in an entry template
type templateLine struct {
	role LineRole
	side Side
}

// entryTemplates maps postable document types to their line definitions.
// CREDIT_NOTE is intentionally absent: it reuses the supplier-invoice
// template with every side swapped.
var entryTemplates = map[DocumentType][]templateLine{
	DocumentTypeInvoiceReceived: {
		{RoleExpense, SideDebit},
		{RoleVATDeductible, SideDebit},
		{RoleSupplier, SideCredit},
	},
	DocumentTypeInvoiceSent: {
		{RoleCustomer, SideDebit},
		{RoleRevenue, SideCredit},
		{RoleVATCollected, SideCredit},
	},
	DocumentTypeExpenseNote: {
		{RoleExpense, SideDebit},
		{RoleVATDeductible, SideDebit},
		{RoleEmployee, SideCredit},
	},
}

// templateFor resolves the line definitions for a document type.
func templateFor(docType DocumentType) ([]templateLine, bool) {
	if docType == DocumentTypeCreditNote {
		base := entryTemplates[DocumentTypeInvoiceReceived]
		swapped := make([]templateLine, len(base))
		for i, l := range base {
			swapped[i] = templateLine{role: l.role, side: l.side.Swap()}
		}
		return swapped, true
	}
	tpl, ok := entryTemplates[docType]
	return tpl, ok
}

// EntryRulesEngine turns a classified document into a balanced double-entry
// line set using static templates keyed by document type.
type EntryRulesEngine struct{}

// NewEntryRulesEngine creates an EntryRulesEngine
func NewEntryRulesEngine() *EntryRulesEngine {
	return &EntryRulesEngine{}
}

// GenerateEntryLines fills the template for the document's type with its
// HT/TVA/TTC amounts. Templates balance by construction, but the result is
// still verified before being returned: templates and data together
// determine balance, and bad extracted amounts must not reach the ledger.
func (e *EntryRulesEngine) GenerateEntryLines(doc *AccountingDocument, classification *AIClassification) ([]EntryLine, error) {
	docType := doc.DocumentType
	if classification != nil && classification.EffectiveType() != DocumentTypeUnknown {
		docType = classification.EffectiveType()
	}
	tpl, ok := templateFor(docType)
	if !ok {
		return nil, shared.NewDomainError("NO_ENTRY_TEMPLATE",
			"No entry template for document type").WithDetail("document_type", string(docType))
	}
	if !doc.HasCompleteAmounts() {
		return nil, shared.NewDomainError("MISSING_AMOUNTS",
			"Document amounts are incomplete").WithDetail("document_id", doc.ID.String())
	}

	ht := doc.AmountUntaxed
	tva := doc.AmountTax
	ttc := doc.AmountTotal
	if ht.IsZero() && !ttc.IsZero() {
		// TTC-only documents post without a VAT split
		ht = ttc.Sub(tva)
	}

	lines := make([]EntryLine, 0, len(tpl))
	for _, tl := range tpl {
		amount := e.amountForRole(tl.role, ht, tva, ttc)
		if amount.IsZero() {
			// zero-VAT documents simply omit the VAT line
			continue
		}
		line := EntryLine{
			AccountCode: e.accountForRole(tl.role, doc, classification),
			Label:       lineLabel(doc),
		}
		if tl.side == SideDebit {
			line.Debit = amount
		} else {
			line.Credit = amount
		}
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return nil, shared.NewDomainError("MISSING_AMOUNTS",
			"Document amounts produce an empty entry").WithDetail("document_id", doc.ID.String())
	}
	if !LinesBalanced(lines) {
		return nil, shared.ErrUnbalancedEntry.WithDetail("document_id", doc.ID.String())
	}
	return lines, nil
}

func (e *EntryRulesEngine) amountForRole(role LineRole, ht, tva, ttc decimal.Decimal) decimal.Decimal {
	switch role {
	case RoleExpense, RoleRevenue:
		return ht
	case RoleVATDeductible, RoleVATCollected:
		return tva
	case RoleSupplier, RoleCustomer, RoleEmployee:
		return ttc
	default:
		return decimal.Zero
	}
}

func (e *EntryRulesEngine) accountForRole(role LineRole, doc *AccountingDocument, classification *AIClassification) string {
	switch role {
	case RoleSupplier:
		return AccountSuppliers
	case RoleCustomer:
		return AccountCustomers
	case RoleEmployee:
		return AccountEmployees
	case RoleVATDeductible:
		return AccountVATDeductible
	case RoleVATCollected:
		return AccountVATCollected
	case RoleExpense:
		if classification != nil && classification.EffectiveAccount() != "" {
			return classification.EffectiveAccount()
		}
		return AccountPurchases
	case RoleRevenue:
		if classification != nil && classification.EffectiveAccount() != "" {
			return classification.EffectiveAccount()
		}
		return AccountSalesGoods
	default:
		return ""
	}
}

func lineLabel(doc *AccountingDocument) string {
	label := doc.PartnerName
	if label == "" {
		label = doc.DocumentNumber
	}
	if doc.InvoiceNumber != "" {
		label += " " + doc.InvoiceNumber
	}
	return label
}
