package handler

import (
	"time"

	appbanking "github.com/azalscore/backend/internal/application/banking"
	"github.com/azalscore/backend/internal/domain/banking"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReconciliationHandler handles bank transaction and reconciliation API endpoints
type ReconciliationHandler struct {
	BaseHandler
	service *appbanking.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *appbanking.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// TransactionListFilter represents filter parameters for the transaction list
type TransactionListFilter struct {
	AccountID string `form:"account_id" json:"account_id" binding:"omitempty,uuid"`
	Status    string `form:"status"`
	From      string `form:"from"`
	To        string `form:"to"`
	Search    string `form:"search"`
	Page      int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100" json:"page_size"`
}

// ManualMatchRequest links a transaction to a document by hand
type ManualMatchRequest struct {
	DocumentID uuid.UUID `json:"document_id" binding:"required"`
}

// ListTransactions returns a paginated list of synced transactions
func (h *ReconciliationHandler) ListTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter TransactionListFilter
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

	domainFilter := banking.TransactionFilter{
		Status:   banking.ReconciliationStatus(filter.Status),
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.AccountID != "" {
		id := uuid.MustParse(filter.AccountID)
		domainFilter.AccountID = &id
	}
	if filter.From != "" {
		if t, err := time.Parse("2006-01-02", filter.From); err == nil {
			domainFilter.From = &t
		}
	}
	if filter.To != "" {
		if t, err := time.Parse("2006-01-02", filter.To); err == nil {
			t = t.Add(24*time.Hour - time.Second)
			domainFilter.To = &t
		}
	}

	result, err := h.service.ListTransactions(c.Request.Context(), tenantID, domainFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// AutoReconcile runs the matcher over all unmatched transactions
func (h *ReconciliationHandler) AutoReconcile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	result, err := h.service.AutoReconcile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Suggestions returns candidate documents for a transaction
func (h *ReconciliationHandler) Suggestions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	suggestions, err := h.service.Suggestions(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, suggestions)
}

// ManualMatch links a transaction to a document chosen by the user
func (h *ReconciliationHandler) ManualMatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var userID *uuid.UUID
	if id, err := getUserID(c); err == nil {
		userID = &id
	}

	tx, err := h.service.ManualMatch(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), req.DocumentID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}

// Unmatch breaks an existing match and returns the transaction to the queue
func (h *ReconciliationHandler) Unmatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid transaction ID")
		return
	}

	var userID *uuid.UUID
	if id, err := getUserID(c); err == nil {
		userID = &id
	}

	tx, err := h.service.Unmatch(c.Request.Context(), tenantID, uuid.MustParse(req.ID), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tx)
}
