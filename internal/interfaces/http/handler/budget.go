package handler

import (
	"strconv"

	appbudget "github.com/azalscore/backend/internal/application/budget"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BudgetHandler handles budget line API endpoints
type BudgetHandler struct {
	BaseHandler
	service *appbudget.LineService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(service *appbudget.LineService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// Create registers a budget line for a fiscal year and account
func (h *BudgetHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req appbudget.CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	line, err := h.service.CreateLine(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, line)
}

// Update changes a line's label and annual amount, reallocating months
func (h *BudgetHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid budget line ID")
		return
	}

	var req appbudget.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	line, err := h.service.UpdateLine(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, line)
}

// Get returns a single budget line by ID
func (h *BudgetHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid budget line ID")
		return
	}

	line, err := h.service.GetLine(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, line)
}

// List returns all budget lines for a fiscal year
func (h *BudgetHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	fiscalYear, err := strconv.Atoi(c.Query("fiscal_year"))
	if err != nil || fiscalYear < 2000 || fiscalYear > 2100 {
		h.BadRequest(c, "fiscal_year query parameter is required and must be a valid year")
		return
	}

	lines, err := h.service.ListLines(c.Request.Context(), tenantID, fiscalYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lines)
}

// Delete removes a budget line
func (h *BudgetHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid budget line ID")
		return
	}

	if err := h.service.DeleteLine(c.Request.Context(), tenantID, uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
