package accounting

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DocumentService drives the document pipeline: intake, OCR, classification
// and entry proposal generation.
type DocumentService struct {
	docRepo    accounting.DocumentRepository
	ocrRepo    accounting.OCRResultRepository
	classRepo  accounting.ClassificationRepository
	entryRepo  accounting.AutoEntryRepository
	alertRepo  accounting.AlertRepository
	storage    ObjectStorage
	ocr        OCREngine
	poster     EntryPoster
	extractor  *accounting.FieldExtractor
	classifier *accounting.DocumentClassifier
	rules      *accounting.EntryRulesEngine
	logger     *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	docRepo accounting.DocumentRepository,
	ocrRepo accounting.OCRResultRepository,
	classRepo accounting.ClassificationRepository,
	entryRepo accounting.AutoEntryRepository,
	alertRepo accounting.AlertRepository,
	storage ObjectStorage,
	ocr OCREngine,
	poster EntryPoster,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:    docRepo,
		ocrRepo:    ocrRepo,
		classRepo:  classRepo,
		entryRepo:  entryRepo,
		alertRepo:  alertRepo,
		storage:    storage,
		ocr:        ocr,
		poster:     poster,
		extractor:  accounting.NewFieldExtractor(),
		classifier: accounting.NewDocumentClassifier(),
		rules:      accounting.NewEntryRulesEngine(),
		logger:     logger,
	}
}

// UploadDocumentRequest represents an incoming document file
type UploadDocumentRequest struct {
	FileName    string
	ContentType string
	Content     []byte
	Source      string
	CreatedBy   *uuid.UUID
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	DocumentNumber  string          `json:"document_number"`
	DocumentType    string          `json:"document_type"`
	Source          string          `json:"source"`
	Status          string          `json:"status"`
	PartnerName     string          `json:"partner_name,omitempty"`
	SIRET           string          `json:"siret,omitempty"`
	VATNumber       string          `json:"vat_number,omitempty"`
	IBAN            string          `json:"iban,omitempty"`
	InvoiceNumber   string          `json:"invoice_number,omitempty"`
	AmountUntaxed   decimal.Decimal `json:"amount_untaxed"`
	AmountTax       decimal.Decimal `json:"amount_tax"`
	AmountTotal     decimal.Decimal `json:"amount_total"`
	DocumentDate    *time.Time      `json:"document_date,omitempty"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	FileName        string          `json:"file_name"`
	ConfidenceLevel string          `json:"confidence_level,omitempty"`
	ConfidenceScore float64         `json:"confidence_score"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	ValidatedAt     *time.Time      `json:"validated_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CreateDocument stores an uploaded file, registers the document and runs
// the pipeline on it right away. A duplicate file hash raises an advisory
// alert but never blocks the upload; an unreadable file surfaces as an ERROR
// document rather than a failed call.
func (s *DocumentService) CreateDocument(ctx context.Context, tenantID uuid.UUID, req UploadDocumentRequest) (*DocumentResponse, error) {
	if len(req.Content) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document content is empty")
	}
	source := accounting.DocumentSource(req.Source)
	if req.Source == "" {
		source = accounting.DocumentSourceUpload
	}

	sum := sha256.Sum256(req.Content)
	fileHash := hex.EncodeToString(sum[:])

	number, err := s.docRepo.GenerateDocumentNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	doc, err := accounting.NewAccountingDocument(tenantID, number, accounting.DocumentTypeUnknown, source, req.FileName)
	if err != nil {
		return nil, err
	}
	doc.FileHash = fileHash
	doc.FilePath = fmt.Sprintf("documents/%s/%s/%s", tenantID, doc.ID, req.FileName)
	if req.CreatedBy != nil {
		doc.CreatedBy = req.CreatedBy
	}

	if existing, err := s.docRepo.FindByFileHash(ctx, tenantID, fileHash); err == nil && existing != nil {
		s.raiseDuplicateAlert(ctx, tenantID, doc, existing)
	}

	if err := s.storage.Put(ctx, doc.FilePath, req.Content, req.ContentType); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return s.ProcessDocument(ctx, tenantID, doc.ID)
}

// ProcessDocument runs the pipeline on a document: OCR, field extraction,
// classification and entry proposal. An unreadable file moves the document
// to ERROR and raises an alert instead of failing the call.
func (s *DocumentService) ProcessDocument(ctx context.Context, tenantID, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := doc.StartProcessing(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	content, err := s.storage.Get(ctx, doc.FilePath)
	if err != nil {
		return s.failProcessing(ctx, doc, "stored file could not be read: "+err.Error())
	}

	text, err := s.ocr.ExtractText(ctx, content, doc.FileName)
	if err != nil {
		return s.failProcessing(ctx, doc, "OCR failed: "+err.Error())
	}

	fields := s.extractor.ExtractFields(text.Text)
	ocrResult, err := accounting.NewOCRResult(tenantID, doc.ID, text.Engine, text.Text, fields)
	if err != nil {
		return nil, err
	}
	if err := s.ocrRepo.Save(ctx, ocrResult); err != nil {
		return nil, err
	}

	result := s.classifier.Classify(text.Text, fields)
	classification, err := accounting.NewAIClassification(tenantID, doc.ID, result)
	if err != nil {
		return nil, err
	}
	if err := s.classRepo.Save(ctx, classification); err != nil {
		return nil, err
	}

	s.applyExtractedFields(doc, fields)
	doc.SetClassification(result.DocumentType, result.ConfidenceLevel, result.Score)

	if !doc.HasCompleteAmounts() {
		s.raisePipelineAlert(ctx, doc, accounting.AlertMissingInfo, accounting.SeverityWarning,
			"Incomplete document", "Amounts could not be fully extracted; the document needs manual completion")
	}
	if result.ConfidenceLevel == accounting.ConfidenceLow {
		s.raisePipelineAlert(ctx, doc, accounting.AlertLowConfidence, accounting.SeverityWarning,
			"Low classification confidence", fmt.Sprintf("Classification scored %.0f; please review", result.Score))
	}

	var entry *accounting.AutoEntry
	if result.DocumentType.Postable() && doc.HasCompleteAmounts() {
		lines, err := s.rules.GenerateEntryLines(doc, classification)
		if err == nil {
			entry, err = accounting.NewAutoEntry(tenantID, doc.ID, accounting.JournalForType(result.DocumentType),
				lines, result.ConfidenceLevel, result.Score)
			if err == nil {
				if err := s.entryRepo.Save(ctx, entry); err != nil {
					return nil, err
				}
			}
		}
		if err != nil {
			s.logger.Warn("entry proposal generation failed",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
		}
	}

	if err := doc.MarkAnalyzed(); err != nil {
		return nil, err
	}
	autoPost := entry != nil && entry.AutoValidated
	if autoPost {
		if err := doc.Validate(nil); err != nil {
			return nil, err
		}
	} else {
		if err := doc.SubmitForValidation(); err != nil {
			return nil, err
		}
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	// an auto-validated proposal goes straight to the ledger; a posting
	// failure leaves the document VALIDATED with the proposal still draft
	if autoPost {
		if _, err := s.poster.ValidateEntry(ctx, tenantID, entry.ID, nil); err != nil {
			s.logger.Warn("auto-validated proposal could not be posted",
				zap.String("document_id", doc.ID.String()),
				zap.String("entry_id", entry.ID.String()), zap.Error(err))
			return toDocumentResponse(doc), nil
		}
		doc, err = s.docRepo.FindByIDForTenant(ctx, tenantID, doc.ID)
		if err != nil {
			return nil, err
		}
	}
	return toDocumentResponse(doc), nil
}

// ReprocessDocument resets a failed or analyzed document and runs the
// pipeline again.
func (s *DocumentService) ReprocessDocument(ctx context.Context, tenantID, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := doc.ResetForReprocessing(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return s.ProcessDocument(ctx, tenantID, id)
}

// GetDocument gets a document by ID
func (s *DocumentService) GetDocument(ctx context.Context, tenantID, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// ListDocuments lists documents with pagination
func (s *DocumentService) ListDocuments(ctx context.Context, tenantID uuid.UUID, filter accounting.DocumentFilter) (*shared.Paginated[DocumentResponse], error) {
	docs, total, err := s.docRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = *toDocumentResponse(&docs[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// RejectDocument rejects a document with a reason
func (s *DocumentService) RejectDocument(ctx context.Context, tenantID, id uuid.UUID, reason string) (*DocumentResponse, error) {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := doc.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// DeleteDocument deletes a document and its stored file. Accounted
// documents cannot be deleted.
func (s *DocumentService) DeleteDocument(ctx context.Context, tenantID, id uuid.UUID) error {
	doc, err := s.docRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !doc.CanDelete() {
		return shared.ErrInvalidState.WithDetail("reason", "accounted documents cannot be deleted")
	}
	if err := s.storage.Delete(ctx, doc.FilePath); err != nil {
		s.logger.Warn("stored file deletion failed",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
	}
	return s.docRepo.Delete(ctx, tenantID, id)
}

// failProcessing moves a document to ERROR, raises an alert and returns the
// document instead of an error so the caller sees the resulting state.
func (s *DocumentService) failProcessing(ctx context.Context, doc *accounting.AccountingDocument, reason string) (*DocumentResponse, error) {
	if err := doc.MarkError(); err != nil {
		return nil, err
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}
	s.raisePipelineAlert(ctx, doc, accounting.AlertDocumentUnreadable, accounting.SeverityCritical,
		"Unreadable document", reason)
	return toDocumentResponse(doc), nil
}

func (s *DocumentService) raiseDuplicateAlert(ctx context.Context, tenantID uuid.UUID, doc, original *accounting.AccountingDocument) {
	alert, err := accounting.NewAccountingAlert(tenantID, accounting.AlertDuplicateSuspected,
		accounting.SeverityWarning, "Possible duplicate document",
		"A document with the same file content already exists")
	if err != nil {
		return
	}
	alert.ForEntity("document", doc.ID).
		WithDetail("original_document_id", original.ID.String()).
		WithDetail("file_hash", doc.FileHash)
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		s.logger.Warn("duplicate alert could not be saved",
			zap.String("document_id", doc.ID.String()), zap.Error(err))
	}
}

func (s *DocumentService) raisePipelineAlert(ctx context.Context, doc *accounting.AccountingDocument, alertType accounting.AlertType, severity accounting.AlertSeverity, title, message string) {
	alert, err := accounting.NewAccountingAlert(doc.TenantID, alertType, severity, title, message)
	if err != nil {
		return
	}
	alert.ForEntity("document", doc.ID)
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		s.logger.Warn("pipeline alert could not be saved",
			zap.String("document_id", doc.ID.String()),
			zap.String("alert_type", string(alertType)), zap.Error(err))
	}
}

// applyExtractedFields copies parseable OCR fields onto the document.
// Unparseable values are skipped, never fatal.
func (s *DocumentService) applyExtractedFields(doc *accounting.AccountingDocument, fields []accounting.ExtractedField) {
	var untaxed, tax, total decimal.Decimal
	for _, f := range fields {
		switch f.Name {
		case accounting.FieldInvoiceNumber:
			doc.InvoiceNumber = f.Value
		case accounting.FieldVendorName:
			doc.PartnerName = f.Value
		case accounting.FieldSIRET:
			doc.SIRET = f.Value
		case accounting.FieldVATNumber:
			doc.VATNumber = f.Value
		case accounting.FieldIBAN:
			doc.IBAN = f.Value
		case accounting.FieldDocumentDate:
			if t, err := time.Parse(accounting.DateLayout, f.Value); err == nil {
				doc.DocumentDate = &t
			}
		case accounting.FieldDueDate:
			if t, err := time.Parse(accounting.DateLayout, f.Value); err == nil {
				doc.DueDate = &t
			}
		case accounting.FieldAmountUntaxed:
			if v, err := accounting.ParseAmount(f.Value); err == nil {
				untaxed = v
			}
		case accounting.FieldAmountTax:
			if v, err := accounting.ParseAmount(f.Value); err == nil {
				tax = v
			}
		case accounting.FieldAmountTotal:
			if v, err := accounting.ParseAmount(f.Value); err == nil {
				total = v
			}
		}
	}
	// derive the missing leg when two of the three amounts are present
	if total.IsPositive() && untaxed.IsPositive() && tax.IsZero() {
		tax = total.Sub(untaxed)
	}
	if total.IsPositive() && tax.IsPositive() && untaxed.IsZero() {
		untaxed = total.Sub(tax)
	}
	if untaxed.IsPositive() && tax.IsPositive() && total.IsZero() {
		total = untaxed.Add(tax)
	}
	doc.SetAmounts(untaxed, tax, total)
}

func toDocumentResponse(doc *accounting.AccountingDocument) *DocumentResponse {
	return &DocumentResponse{
		ID:              doc.ID,
		TenantID:        doc.TenantID,
		DocumentNumber:  doc.DocumentNumber,
		DocumentType:    string(doc.DocumentType),
		Source:          string(doc.Source),
		Status:          string(doc.Status),
		PartnerName:     doc.PartnerName,
		SIRET:           doc.SIRET,
		VATNumber:       doc.VATNumber,
		IBAN:            doc.IBAN,
		InvoiceNumber:   doc.InvoiceNumber,
		AmountUntaxed:   doc.AmountUntaxed,
		AmountTax:       doc.AmountTax,
		AmountTotal:     doc.AmountTotal,
		DocumentDate:    doc.DocumentDate,
		DueDate:         doc.DueDate,
		FileName:        doc.FileName,
		ConfidenceLevel: string(doc.ConfidenceLevel),
		ConfidenceScore: doc.ConfidenceScore,
		RejectionReason: doc.RejectionReason,
		ProcessedAt:     doc.ProcessedAt,
		ValidatedAt:     doc.ValidatedAt,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
		Version:         doc.Version,
	}
}
