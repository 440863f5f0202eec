package handler

import (
	"io"

	appaccounting "github.com/azalscore/backend/internal/application/accounting"
	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles accounting document API endpoints
type DocumentHandler struct {
	BaseHandler
	service *appaccounting.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service *appaccounting.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// DocumentListFilter represents filter parameters for the document list
type DocumentListFilter struct {
	Status       string `form:"status"`
	DocumentType string `form:"document_type"`
	Search       string `form:"search"`
	Page         int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

// RejectDocumentRequest carries the rejection reason
type RejectDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Upload receives a document file as multipart form data, registers it and
// runs the pipeline on it
func (h *DocumentHandler) Upload(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file in multipart form")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to open uploaded file")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	source := c.PostForm("source")
	if source == "" {
		source = string(accounting.DocumentSourceUpload)
	}

	req := appaccounting.UploadDocumentRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
		Source:      source,
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	doc, err := h.service.CreateDocument(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// Get returns a single document by ID
func (h *DocumentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.service.GetDocument(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// List returns a paginated list of documents
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	result, err := h.service.ListDocuments(c.Request.Context(), tenantID, accounting.DocumentFilter{
		Status:       accounting.DocumentStatus(filter.Status),
		DocumentType: accounting.DocumentType(filter.DocumentType),
		Search:       filter.Search,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Process runs the intake pipeline on a received document
func (h *DocumentHandler) Process(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.service.ProcessDocument(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Reprocess re-runs the pipeline on a failed document
func (h *DocumentHandler) Reprocess(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.service.ReprocessDocument(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Reject marks a document as rejected with a reason
func (h *DocumentHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req RejectDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	doc, err := h.service.RejectDocument(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Delete removes a document and its stored file
func (h *DocumentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.service.DeleteDocument(c.Request.Context(), tenantID, uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
