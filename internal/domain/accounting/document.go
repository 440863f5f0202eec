package accounting

import (
	"time"

	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType represents the business nature of an inbound document
type DocumentType string

const (
	DocumentTypeInvoiceReceived DocumentType = "INVOICE_RECEIVED" // facture fournisseur
	DocumentTypeInvoiceSent     DocumentType = "INVOICE_SENT"     // facture client
	DocumentTypeCreditNote      DocumentType = "CREDIT_NOTE"      // avoir
	DocumentTypeExpenseNote     DocumentType = "EXPENSE_NOTE"     // note de frais
	DocumentTypeQuote           DocumentType = "QUOTE"            // devis
	DocumentTypePurchaseOrder   DocumentType = "PURCHASE_ORDER"   // bon de commande
	DocumentTypeUnknown         DocumentType = "UNKNOWN"
)

// IsValid checks if the type is a valid DocumentType
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeInvoiceReceived, DocumentTypeInvoiceSent, DocumentTypeCreditNote,
		DocumentTypeExpenseNote, DocumentTypeQuote, DocumentTypePurchaseOrder, DocumentTypeUnknown:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// Postable reports whether documents of this type produce journal entries.
// Quotes and purchase orders are commercial documents, not accounting events.
func (t DocumentType) Postable() bool {
	switch t {
	case DocumentTypeInvoiceReceived, DocumentTypeInvoiceSent,
		DocumentTypeCreditNote, DocumentTypeExpenseNote:
		return true
	}
	return false
}

// DocumentSource represents how a document entered the system
type DocumentSource string

const (
	DocumentSourceUpload DocumentSource = "UPLOAD"
	DocumentSourceEmail  DocumentSource = "EMAIL"
	DocumentSourceScan   DocumentSource = "SCAN"
	DocumentSourceAPI    DocumentSource = "API"
)

// IsValid checks if the source is a valid DocumentSource
func (s DocumentSource) IsValid() bool {
	switch s {
	case DocumentSourceUpload, DocumentSourceEmail, DocumentSourceScan, DocumentSourceAPI:
		return true
	}
	return false
}

// DocumentStatus represents the pipeline state of a document
type DocumentStatus string

const (
	DocumentStatusReceived          DocumentStatus = "RECEIVED"
	DocumentStatusProcessing        DocumentStatus = "PROCESSING"
	DocumentStatusAnalyzed          DocumentStatus = "ANALYZED"
	DocumentStatusPendingValidation DocumentStatus = "PENDING_VALIDATION"
	DocumentStatusValidated         DocumentStatus = "VALIDATED"
	DocumentStatusAccounted         DocumentStatus = "ACCOUNTED"
	DocumentStatusRejected          DocumentStatus = "REJECTED"
	DocumentStatusError             DocumentStatus = "ERROR"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusReceived, DocumentStatusProcessing, DocumentStatusAnalyzed,
		DocumentStatusPendingValidation, DocumentStatusValidated, DocumentStatusAccounted,
		DocumentStatusRejected, DocumentStatusError:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status ends the pipeline
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusAccounted || s == DocumentStatusRejected
}

// CanTransitionTo checks whether a transition to the target status is legal
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	allowed, ok := documentTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

var documentTransitions = map[DocumentStatus][]DocumentStatus{
	DocumentStatusReceived:          {DocumentStatusProcessing, DocumentStatusRejected, DocumentStatusError},
	DocumentStatusProcessing:        {DocumentStatusAnalyzed, DocumentStatusError},
	DocumentStatusAnalyzed:          {DocumentStatusPendingValidation, DocumentStatusValidated, DocumentStatusRejected},
	DocumentStatusPendingValidation: {DocumentStatusValidated, DocumentStatusRejected},
	DocumentStatusValidated:         {DocumentStatusAccounted, DocumentStatusRejected},
	// ERROR allows re-processing after a human fixes the cause
	DocumentStatusError: {DocumentStatusProcessing, DocumentStatusRejected},
}

// ConfidenceLevel is the coarse trust bucket for automatic extraction/classification
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "HIGH"
	ConfidenceMedium  ConfidenceLevel = "MEDIUM"
	ConfidenceLow     ConfidenceLevel = "LOW"
	ConfidenceVeryLow ConfidenceLevel = "VERY_LOW"
)

// Score thresholds for confidence buckets. Hardcoded on purpose: the
// classification is a deterministic rule pipeline, not a trained model.
const (
	HighConfidenceThreshold   = 95.0
	MediumConfidenceThreshold = 80.0
	LowConfidenceThreshold    = 60.0
)

// ConfidenceLevelForScore maps a 0-100 score onto its bucket
func ConfidenceLevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= HighConfidenceThreshold:
		return ConfidenceHigh
	case score >= MediumConfidenceThreshold:
		return ConfidenceMedium
	case score >= LowConfidenceThreshold:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// AccountingDocument is the aggregate root for one inbound financial document.
// It is created on intake and mutated by every pipeline stage.
type AccountingDocument struct {
	shared.TenantAggregateRoot
	DocumentNumber  string
	DocumentType    DocumentType
	Source          DocumentSource
	Status          DocumentStatus
	PartnerName     string
	SIRET           string
	VATNumber       string
	IBAN            string
	InvoiceNumber   string
	AmountUntaxed   decimal.Decimal // HT
	AmountTax       decimal.Decimal // TVA
	AmountTotal     decimal.Decimal // TTC
	DocumentDate    *time.Time
	DueDate         *time.Time
	FileName        string
	FilePath        string
	FileHash        string // SHA-256 of the raw content, hex encoded
	ConfidenceLevel ConfidenceLevel
	ConfidenceScore float64
	RejectionReason string
	ProcessedAt     *time.Time
	ValidatedAt     *time.Time
	ValidatedBy     *uuid.UUID
}

// NewAccountingDocument creates a document in RECEIVED state.
func NewAccountingDocument(
	tenantID uuid.UUID,
	documentNumber string,
	docType DocumentType,
	source DocumentSource,
	fileName string,
) (*AccountingDocument, error) {
	if documentNumber == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document number is required")
	}
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document type: "+string(docType))
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid document source: "+string(source))
	}
	return &AccountingDocument{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentNumber:      documentNumber,
		DocumentType:        docType,
		Source:              source,
		Status:              DocumentStatusReceived,
		FileName:            fileName,
		AmountUntaxed:       decimal.Zero,
		AmountTax:           decimal.Zero,
		AmountTotal:         decimal.Zero,
	}, nil
}

// transition moves the document to the target status after checking legality
func (d *AccountingDocument) transition(target DocumentStatus) error {
	if !d.Status.CanTransitionTo(target) {
		return shared.ErrInvalidState.
			WithDetail("from", string(d.Status)).
			WithDetail("to", string(target))
	}
	d.Status = target
	return nil
}

// StartProcessing moves the document into the pipeline
func (d *AccountingDocument) StartProcessing() error {
	return d.transition(DocumentStatusProcessing)
}

// MarkAnalyzed records the end of the OCR + classification stages
func (d *AccountingDocument) MarkAnalyzed() error {
	if err := d.transition(DocumentStatusAnalyzed); err != nil {
		return err
	}
	now := time.Now()
	d.ProcessedAt = &now
	return nil
}

// SubmitForValidation queues the document for human review
func (d *AccountingDocument) SubmitForValidation() error {
	return d.transition(DocumentStatusPendingValidation)
}

// Validate marks the document approved, either by a human or by auto-validation
func (d *AccountingDocument) Validate(userID *uuid.UUID) error {
	if err := d.transition(DocumentStatusValidated); err != nil {
		return err
	}
	now := time.Now()
	d.ValidatedAt = &now
	d.ValidatedBy = userID
	return nil
}

// MarkAccounted records that the journal entry was posted to the ledger
func (d *AccountingDocument) MarkAccounted() error {
	return d.transition(DocumentStatusAccounted)
}

// Reject marks the document rejected with a mandatory reason
func (d *AccountingDocument) Reject(reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_INPUT", "Rejection reason is required")
	}
	if err := d.transition(DocumentStatusRejected); err != nil {
		return err
	}
	d.RejectionReason = reason
	return nil
}

// MarkError records a terminal pipeline failure for this run.
// A human can re-trigger processing from here.
func (d *AccountingDocument) MarkError() error {
	return d.transition(DocumentStatusError)
}

// ResetForReprocessing returns an errored or analyzed document to RECEIVED
// so the pipeline can run again from the start.
func (d *AccountingDocument) ResetForReprocessing() error {
	switch d.Status {
	case DocumentStatusError, DocumentStatusAnalyzed, DocumentStatusPendingValidation:
		d.Status = DocumentStatusReceived
		return nil
	default:
		return shared.ErrInvalidState.WithDetail("from", string(d.Status))
	}
}

// CanDelete reports whether the document may be removed.
// Accounted documents are part of the ledger audit trail and stay.
func (d *AccountingDocument) CanDelete() bool {
	return d.Status != DocumentStatusAccounted
}

// SetClassification records the outcome of the classification stage
func (d *AccountingDocument) SetClassification(docType DocumentType, level ConfidenceLevel, score float64) {
	if docType.IsValid() && docType != DocumentTypeUnknown {
		d.DocumentType = docType
	}
	d.ConfidenceLevel = level
	d.ConfidenceScore = score
}

// SetAmounts records the monetary amounts extracted from the document
func (d *AccountingDocument) SetAmounts(untaxed, tax, total decimal.Decimal) {
	d.AmountUntaxed = untaxed
	d.AmountTax = tax
	d.AmountTotal = total
}

// HasCompleteAmounts reports whether the amounts required for entry generation are present
func (d *AccountingDocument) HasCompleteAmounts() bool {
	return d.AmountTotal.IsPositive() && !d.AmountUntaxed.IsNegative()
}
