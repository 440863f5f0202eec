package models

import (
	"encoding/json"
	"time"

	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for AccountingDocument
type DocumentModel struct {
	TenantAggregateModel
	DocumentNumber  string          `gorm:"type:varchar(32);not null;uniqueIndex:idx_documents_tenant_number,priority:2"`
	DocumentType    string          `gorm:"type:varchar(32);not null;index"`
	Source          string          `gorm:"type:varchar(16);not null"`
	Status          string          `gorm:"type:varchar(32);not null;index"`
	PartnerName     string          `gorm:"type:varchar(255)"`
	SIRET           string          `gorm:"type:varchar(14);column:siret"`
	VATNumber       string          `gorm:"type:varchar(32)"`
	IBAN            string          `gorm:"type:varchar(34);column:iban"`
	InvoiceNumber   string          `gorm:"type:varchar(64);index"`
	AmountUntaxed   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	AmountTax       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	AmountTotal     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DocumentDate    *time.Time
	DueDate         *time.Time
	FileName        string `gorm:"type:varchar(255);not null"`
	FilePath        string `gorm:"type:varchar(512);not null"`
	FileHash        string `gorm:"type:varchar(64);not null;index"`
	ConfidenceLevel string `gorm:"type:varchar(16)"`
	ConfidenceScore float64
	RejectionReason string `gorm:"type:text"`
	ProcessedAt     *time.Time
	ValidatedAt     *time.Time
	ValidatedBy     *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for DocumentModel
func (DocumentModel) TableName() string { return "accounting_documents" }

// ToDomain converts the model to a domain AccountingDocument
func (m *DocumentModel) ToDomain() *accounting.AccountingDocument {
	doc := &accounting.AccountingDocument{
		DocumentNumber:  m.DocumentNumber,
		DocumentType:    accounting.DocumentType(m.DocumentType),
		Source:          accounting.DocumentSource(m.Source),
		Status:          accounting.DocumentStatus(m.Status),
		PartnerName:     m.PartnerName,
		SIRET:           m.SIRET,
		VATNumber:       m.VATNumber,
		IBAN:            m.IBAN,
		InvoiceNumber:   m.InvoiceNumber,
		AmountUntaxed:   m.AmountUntaxed,
		AmountTax:       m.AmountTax,
		AmountTotal:     m.AmountTotal,
		DocumentDate:    m.DocumentDate,
		DueDate:         m.DueDate,
		FileName:        m.FileName,
		FilePath:        m.FilePath,
		FileHash:        m.FileHash,
		ConfidenceLevel: accounting.ConfidenceLevel(m.ConfidenceLevel),
		ConfidenceScore: m.ConfidenceScore,
		RejectionReason: m.RejectionReason,
		ProcessedAt:     m.ProcessedAt,
		ValidatedAt:     m.ValidatedAt,
		ValidatedBy:     m.ValidatedBy,
	}
	m.PopulateTenantAggregateRoot(&doc.TenantAggregateRoot)
	return doc
}

// DocumentModelFromDomain converts a domain AccountingDocument to the model
func DocumentModelFromDomain(doc *accounting.AccountingDocument) *DocumentModel {
	m := &DocumentModel{
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
		FilePath:        doc.FilePath,
		FileHash:        doc.FileHash,
		ConfidenceLevel: string(doc.ConfidenceLevel),
		ConfidenceScore: doc.ConfidenceScore,
		RejectionReason: doc.RejectionReason,
		ProcessedAt:     doc.ProcessedAt,
		ValidatedAt:     doc.ValidatedAt,
		ValidatedBy:     doc.ValidatedBy,
	}
	m.FromDomainTenantAggregateRoot(doc.TenantAggregateRoot)
	return m
}

// OCRResultModel is the persistence model for OCRResult
type OCRResultModel struct {
	TenantAggregateModel
	DocumentID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Engine            string    `gorm:"type:varchar(32);not null"`
	RawText           string    `gorm:"type:text"`
	FieldsJSON        string    `gorm:"column:fields;type:jsonb;default:'[]'"`
	OverallConfidence float64
}

// TableName returns the table name for OCRResultModel
func (OCRResultModel) TableName() string { return "ocr_results" }

// ToDomain converts the model to a domain OCRResult
func (m *OCRResultModel) ToDomain() *accounting.OCRResult {
	var fields []accounting.ExtractedField
	if m.FieldsJSON != "" {
		_ = json.Unmarshal([]byte(m.FieldsJSON), &fields)
	}
	result := &accounting.OCRResult{
		DocumentID:        m.DocumentID,
		Engine:            m.Engine,
		RawText:           m.RawText,
		Fields:            fields,
		OverallConfidence: m.OverallConfidence,
	}
	m.PopulateTenantAggregateRoot(&result.TenantAggregateRoot)
	return result
}

// OCRResultModelFromDomain converts a domain OCRResult to the model
func OCRResultModelFromDomain(result *accounting.OCRResult) *OCRResultModel {
	fieldsJSON, _ := json.Marshal(result.Fields)
	m := &OCRResultModel{
		DocumentID:        result.DocumentID,
		Engine:            result.Engine,
		RawText:           result.RawText,
		FieldsJSON:        string(fieldsJSON),
		OverallConfidence: result.OverallConfidence,
	}
	m.FromDomainTenantAggregateRoot(result.TenantAggregateRoot)
	return m
}

// ClassificationModel is the persistence model for AIClassification
type ClassificationModel struct {
	TenantAggregateModel
	DocumentID       uuid.UUID `gorm:"type:uuid;not null;index"`
	PredictedType    string    `gorm:"type:varchar(32);not null"`
	SuggestedAccount string    `gorm:"type:varchar(16)"`
	SuggestedJournal string    `gorm:"type:varchar(8)"`
	SuggestedTaxCode string    `gorm:"type:varchar(16)"`
	ConfidenceLevel  string    `gorm:"type:varchar(16);not null"`
	ConfidenceScore  float64
	KeywordHitsJSON  string `gorm:"column:keyword_hits;type:jsonb;default:'[]'"`
	Corrected        bool   `gorm:"not null;default:false"`
	CorrectedType    string     `gorm:"type:varchar(32)"`
	CorrectedAccount string     `gorm:"type:varchar(16)"`
	CorrectedBy      *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for ClassificationModel
func (ClassificationModel) TableName() string { return "ai_classifications" }

// ToDomain converts the model to a domain AIClassification
func (m *ClassificationModel) ToDomain() *accounting.AIClassification {
	var hits []string
	if m.KeywordHitsJSON != "" {
		_ = json.Unmarshal([]byte(m.KeywordHitsJSON), &hits)
	}
	c := &accounting.AIClassification{
		DocumentID:       m.DocumentID,
		PredictedType:    accounting.DocumentType(m.PredictedType),
		SuggestedAccount: m.SuggestedAccount,
		SuggestedJournal: m.SuggestedJournal,
		SuggestedTaxCode: m.SuggestedTaxCode,
		ConfidenceLevel:  accounting.ConfidenceLevel(m.ConfidenceLevel),
		ConfidenceScore:  m.ConfidenceScore,
		KeywordHits:      hits,
		Corrected:        m.Corrected,
		CorrectedType:    accounting.DocumentType(m.CorrectedType),
		CorrectedAccount: m.CorrectedAccount,
		CorrectedBy:      m.CorrectedBy,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// ClassificationModelFromDomain converts a domain AIClassification to the model
func ClassificationModelFromDomain(c *accounting.AIClassification) *ClassificationModel {
	hitsJSON, _ := json.Marshal(c.KeywordHits)
	m := &ClassificationModel{
		DocumentID:       c.DocumentID,
		PredictedType:    string(c.PredictedType),
		SuggestedAccount: c.SuggestedAccount,
		SuggestedJournal: c.SuggestedJournal,
		SuggestedTaxCode: c.SuggestedTaxCode,
		ConfidenceLevel:  string(c.ConfidenceLevel),
		ConfidenceScore:  c.ConfidenceScore,
		KeywordHitsJSON:  string(hitsJSON),
		Corrected:        c.Corrected,
		CorrectedType:    string(c.CorrectedType),
		CorrectedAccount: c.CorrectedAccount,
		CorrectedBy:      c.CorrectedBy,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// AutoEntryModel is the persistence model for AutoEntry
type AutoEntryModel struct {
	TenantAggregateModel
	DocumentID      uuid.UUID `gorm:"type:uuid;not null;index"`
	JournalCode     string    `gorm:"type:varchar(8);not null"`
	LinesJSON       string    `gorm:"column:lines;type:jsonb;not null"`
	ConfidenceLevel string    `gorm:"type:varchar(16);not null"`
	ConfidenceScore float64
	AutoValidated   bool       `gorm:"not null;default:false"`
	RequiresReview  bool       `gorm:"not null;default:true;index"`
	Status          string     `gorm:"type:varchar(16);not null;index"`
	JournalEntryID  *uuid.UUID `gorm:"type:uuid"`
	RejectionReason string     `gorm:"type:text"`
	PostedAt        *time.Time
}

// TableName returns the table name for AutoEntryModel
func (AutoEntryModel) TableName() string { return "auto_entries" }

// ToDomain converts the model to a domain AutoEntry
func (m *AutoEntryModel) ToDomain() *accounting.AutoEntry {
	var lines []accounting.EntryLine
	if m.LinesJSON != "" {
		_ = json.Unmarshal([]byte(m.LinesJSON), &lines)
	}
	e := &accounting.AutoEntry{
		DocumentID:      m.DocumentID,
		JournalCode:     m.JournalCode,
		Lines:           lines,
		ConfidenceLevel: accounting.ConfidenceLevel(m.ConfidenceLevel),
		ConfidenceScore: m.ConfidenceScore,
		AutoValidated:   m.AutoValidated,
		RequiresReview:  m.RequiresReview,
		Status:          accounting.AutoEntryStatus(m.Status),
		JournalEntryID:  m.JournalEntryID,
		RejectionReason: m.RejectionReason,
		PostedAt:        m.PostedAt,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// AutoEntryModelFromDomain converts a domain AutoEntry to the model
func AutoEntryModelFromDomain(e *accounting.AutoEntry) *AutoEntryModel {
	linesJSON, _ := json.Marshal(e.Lines)
	m := &AutoEntryModel{
		DocumentID:      e.DocumentID,
		JournalCode:     e.JournalCode,
		LinesJSON:       string(linesJSON),
		ConfidenceLevel: string(e.ConfidenceLevel),
		ConfidenceScore: e.ConfidenceScore,
		AutoValidated:   e.AutoValidated,
		RequiresReview:  e.RequiresReview,
		Status:          string(e.Status),
		JournalEntryID:  e.JournalEntryID,
		RejectionReason: e.RejectionReason,
		PostedAt:        e.PostedAt,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// JournalEntryModel is the persistence model for JournalEntry
type JournalEntryModel struct {
	TenantAggregateModel
	EntryNumber string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_journal_entries_tenant_number,priority:2"`
	JournalCode string     `gorm:"type:varchar(8);not null;index"`
	EntryDate   time.Time  `gorm:"not null;index"`
	Reference   string     `gorm:"type:varchar(64)"`
	LinesJSON   string     `gorm:"column:lines;type:jsonb;not null"`
	DocumentID  *uuid.UUID `gorm:"type:uuid;index"`
	PostedBy    *uuid.UUID `gorm:"type:uuid"`
	PostedAt    time.Time  `gorm:"not null"`
}

// TableName returns the table name for JournalEntryModel
func (JournalEntryModel) TableName() string { return "journal_entries" }

// ToDomain converts the model to a domain JournalEntry
func (m *JournalEntryModel) ToDomain() *accounting.JournalEntry {
	var lines []accounting.EntryLine
	if m.LinesJSON != "" {
		_ = json.Unmarshal([]byte(m.LinesJSON), &lines)
	}
	e := &accounting.JournalEntry{
		EntryNumber: m.EntryNumber,
		JournalCode: m.JournalCode,
		EntryDate:   m.EntryDate,
		Reference:   m.Reference,
		Lines:       lines,
		DocumentID:  m.DocumentID,
		PostedBy:    m.PostedBy,
		PostedAt:    m.PostedAt,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// JournalEntryModelFromDomain converts a domain JournalEntry to the model
func JournalEntryModelFromDomain(e *accounting.JournalEntry) *JournalEntryModel {
	linesJSON, _ := json.Marshal(e.Lines)
	m := &JournalEntryModel{
		EntryNumber: e.EntryNumber,
		JournalCode: e.JournalCode,
		EntryDate:   e.EntryDate,
		Reference:   e.Reference,
		LinesJSON:   string(linesJSON),
		DocumentID:  e.DocumentID,
		PostedBy:    e.PostedBy,
		PostedAt:    e.PostedAt,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// AlertModel is the persistence model for AccountingAlert
type AlertModel struct {
	TenantAggregateModel
	AlertType       string `gorm:"type:varchar(32);not null;index"`
	Severity        string `gorm:"type:varchar(16);not null"`
	Title           string `gorm:"type:varchar(255);not null"`
	Message         string `gorm:"type:text"`
	DetailsJSON     string `gorm:"column:details;type:jsonb;default:'{}'"`
	TargetRolesJSON string `gorm:"column:target_roles;type:jsonb;default:'[]'"`
	EntityType      string `gorm:"type:varchar(32)"`
	EntityID        *uuid.UUID `gorm:"type:uuid;index"`
	Status          string     `gorm:"type:varchar(16);not null;index"`
	ResolvedAt      *time.Time
	ResolvedBy      *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for AlertModel
func (AlertModel) TableName() string { return "accounting_alerts" }

// ToDomain converts the model to a domain AccountingAlert
func (m *AlertModel) ToDomain() *accounting.AccountingAlert {
	details := make(map[string]any)
	if m.DetailsJSON != "" {
		_ = json.Unmarshal([]byte(m.DetailsJSON), &details)
	}
	var roles []string
	if m.TargetRolesJSON != "" {
		_ = json.Unmarshal([]byte(m.TargetRolesJSON), &roles)
	}
	a := &accounting.AccountingAlert{
		AlertType:   accounting.AlertType(m.AlertType),
		Severity:    accounting.AlertSeverity(m.Severity),
		Title:       m.Title,
		Message:     m.Message,
		Details:     details,
		TargetRoles: roles,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Status:      accounting.AlertStatus(m.Status),
		ResolvedAt:  m.ResolvedAt,
		ResolvedBy:  m.ResolvedBy,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// AlertModelFromDomain converts a domain AccountingAlert to the model
func AlertModelFromDomain(a *accounting.AccountingAlert) *AlertModel {
	detailsJSON, _ := json.Marshal(a.Details)
	rolesJSON, _ := json.Marshal(a.TargetRoles)
	m := &AlertModel{
		AlertType:       string(a.AlertType),
		Severity:        string(a.Severity),
		Title:           a.Title,
		Message:         a.Message,
		DetailsJSON:     string(detailsJSON),
		TargetRolesJSON: string(rolesJSON),
		EntityType:      a.EntityType,
		EntityID:        a.EntityID,
		Status:          string(a.Status),
		ResolvedAt:      a.ResolvedAt,
		ResolvedBy:      a.ResolvedBy,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}
