package handler

import (
	appaccounting "github.com/azalscore/backend/internal/application/accounting"
	"github.com/azalscore/backend/internal/domain/shared"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntryHandler handles auto entry review API endpoints
type EntryHandler struct {
	BaseHandler
	service *appaccounting.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(service *appaccounting.EntryService) *EntryHandler {
	return &EntryHandler{service: service}
}

// BulkValidateRequest carries the entry IDs to validate in one call
type BulkValidateRequest struct {
	EntryIDs []uuid.UUID `json:"entry_ids" binding:"required,min=1,max=100"`
}

// RejectEntryRequest carries the rejection reason
type RejectEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListPending returns draft entries waiting for human review
func (h *EntryHandler) ListPending(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	listReq.Normalize()

	result, err := h.service.ListPendingReview(c.Request.Context(), tenantID, shared.Filter{
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
		OrderBy:  listReq.OrderBy,
		OrderDir: listReq.OrderDir,
		Search:   listReq.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns a single auto entry by ID
func (h *EntryHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	entry, err := h.service.GetEntry(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Validate posts a draft entry to the journal
func (h *EntryHandler) Validate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var userID *uuid.UUID
	if id, err := getUserID(c); err == nil {
		userID = &id
	}

	entry, err := h.service.ValidateEntry(c.Request.Context(), tenantID, uuid.MustParse(req.ID), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// BulkValidate posts a batch of draft entries, reporting per-entry outcomes
func (h *EntryHandler) BulkValidate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req BulkValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var userID *uuid.UUID
	if id, err := getUserID(c); err == nil {
		userID = &id
	}

	results := h.service.BulkValidateEntries(c.Request.Context(), tenantID, req.EntryIDs, userID)
	h.Success(c, results)
}

// Reject turns a draft entry down with a reason
func (h *EntryHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var req RejectEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	entry, err := h.service.RejectEntry(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}
