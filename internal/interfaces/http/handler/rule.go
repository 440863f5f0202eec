package handler

import (
	appbanking "github.com/azalscore/backend/internal/application/banking"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RuleHandler handles reconciliation rule API endpoints
type RuleHandler struct {
	BaseHandler
	service *appbanking.RuleService
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(service *appbanking.RuleService) *RuleHandler {
	return &RuleHandler{service: service}
}

// Create registers a reconciliation rule
func (h *RuleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req appbanking.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	rule, err := h.service.CreateRule(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rule)
}

// Update changes a rule's settings. The pattern itself is immutable;
// create a new rule to match differently.
func (h *RuleHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	var req appbanking.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	rule, err := h.service.UpdateRule(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Get returns a single rule by ID
func (h *RuleHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	rule, err := h.service.GetRule(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// List returns all rules for the tenant, highest priority first
func (h *RuleHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	rules, err := h.service.ListRules(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rules)
}

// Delete removes a rule
func (h *RuleHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid rule ID")
		return
	}

	if err := h.service.DeleteRule(c.Request.Context(), tenantID, uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
