package handler

import (
	appaccounting "github.com/azalscore/backend/internal/application/accounting"
	"github.com/azalscore/backend/internal/domain/accounting"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertHandler handles alert API endpoints
type AlertHandler struct {
	BaseHandler
	service *appaccounting.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(service *appaccounting.AlertService) *AlertHandler {
	return &AlertHandler{service: service}
}

// AlertListFilter represents filter parameters for the alert list
type AlertListFilter struct {
	Status    string `form:"status"`
	AlertType string `form:"alert_type" json:"alert_type"`
	Page      int    `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100" json:"page_size"`
}

// List returns alerts visible to the caller's role
func (h *AlertHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var filter AlertListFilter
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

	result, err := h.service.ListAlerts(c.Request.Context(), tenantID, accounting.AlertFilter{
		Status:    accounting.AlertStatus(filter.Status),
		AlertType: accounting.AlertType(filter.AlertType),
		Role:      getRole(c),
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Resolve marks an alert as handled
func (h *AlertHandler) Resolve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	alert, err := h.service.ResolveAlert(c.Request.Context(), tenantID, uuid.MustParse(req.ID), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alert)
}

// Dismiss closes an alert without action
func (h *AlertHandler) Dismiss(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	alert, err := h.service.DismissAlert(c.Request.Context(), tenantID, uuid.MustParse(req.ID), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alert)
}
