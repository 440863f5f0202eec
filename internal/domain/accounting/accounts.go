package accounting

import "strings"

// Ledger account codes from the French chart of accounts (PCG) used as
// defaults when no tenant-specific mapping exists.
const (
	AccountSuppliers     = "401000" // fournisseurs
	AccountCustomers     = "411000" // clients
	AccountEmployees     = "421000" // personnel - rémunérations dues
	AccountPurchases     = "607100" // achats de marchandises
	AccountSupplies      = "606400" // fournitures administratives
	AccountEnergy        = "606100" // fournitures non stockables (eau, énergie)
	AccountSubcontract   = "611000" // sous-traitance générale
	AccountRent          = "613200" // locations immobilières
	AccountTelecom       = "626000" // frais postaux et télécommunications
	AccountTravel        = "625100" // voyages et déplacements
	AccountMeals         = "625700" // réceptions
	AccountFees          = "622600" // honoraires
	AccountInsurance     = "616000" // primes d'assurances
	AccountSalesGoods    = "707000" // ventes de marchandises
	AccountSalesServices = "706000" // prestations de services
	AccountVATDeductible = "445660" // TVA déductible sur autres biens et services
	AccountVATCollected  = "445710" // TVA collectée
)

// Journal codes
const (
	JournalPurchases = "ACH"
	JournalSales     = "VTE"
	JournalBank      = "BQ"
	JournalMisc      = "OD"
)

// Tax codes suggested from the observed TVA/HT ratio
const (
	TaxCodeStandard     = "TVA20"
	TaxCodeIntermediate = "TVA10"
	TaxCodeReduced      = "TVA55"
	TaxCodeExempt       = "TVA0"
)

// accountRule maps vendor/category keywords to a default expense account.
// Rules are evaluated in order; the first hit wins.
type accountRule struct {
	keywords []string
	account  string
}

var defaultAccountRules = []accountRule{
	{[]string{"taxi", "uber", "sncf", "air france", "péage", "peage", "parking", "train"}, AccountTravel},
	{[]string{"restaurant", "repas", "déjeuner", "dejeuner", "traiteur"}, AccountMeals},
	{[]string{"loyer", "location", "bail"}, AccountRent},
	{[]string{"téléphone", "telephone", "internet", "mobile", "fibre"}, AccountTelecom},
	{[]string{"électricité", "electricite", "gaz", "edf", "engie", "eau"}, AccountEnergy},
	{[]string{"logiciel", "saas", "abonnement", "licence", "hébergement", "hebergement"}, AccountSubcontract},
	{[]string{"fournitures", "papeterie", "bureau"}, AccountSupplies},
	{[]string{"assurance", "mutuelle", "prévoyance", "prevoyance"}, AccountInsurance},
	{[]string{"honoraires", "avocat", "expert-comptable", "notaire", "conseil"}, AccountFees},
}

// SuggestExpenseAccount returns the default expense account for the given
// document text, falling back to the generic purchases account.
func SuggestExpenseAccount(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range defaultAccountRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.account
			}
		}
	}
	return AccountPurchases
}

// SuggestRevenueAccount returns the default revenue account for outgoing invoices.
func SuggestRevenueAccount(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range []string{"prestation", "service", "conseil", "maintenance", "formation"} {
		if strings.Contains(lower, kw) {
			return AccountSalesServices
		}
	}
	return AccountSalesGoods
}

// JournalForType returns the journal code a document type posts into.
func JournalForType(t DocumentType) string {
	switch t {
	case DocumentTypeInvoiceReceived, DocumentTypeCreditNote, DocumentTypeExpenseNote:
		return JournalPurchases
	case DocumentTypeInvoiceSent:
		return JournalSales
	default:
		return JournalMisc
	}
}
