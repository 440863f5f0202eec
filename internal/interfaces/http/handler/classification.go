package handler

import (
	appaccounting "github.com/azalscore/backend/internal/application/accounting"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClassificationHandler handles classification API endpoints
type ClassificationHandler struct {
	BaseHandler
	service *appaccounting.ClassificationService
}

// NewClassificationHandler creates a new ClassificationHandler
func NewClassificationHandler(service *appaccounting.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{service: service}
}

// GetLatest returns the most recent classification for a document
func (h *ClassificationHandler) GetLatest(c *gin.Context) {
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

	classification, err := h.service.GetLatestForDocument(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, classification)
}

// GetHistory returns all classification runs for a document, newest first
func (h *ClassificationHandler) GetHistory(c *gin.Context) {
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

	history, err := h.service.GetHistoryForDocument(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// Correct records a human correction on a classification
func (h *ClassificationHandler) Correct(c *gin.Context) {
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

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid classification ID")
		return
	}

	var req appaccounting.CorrectClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	classification, err := h.service.CorrectClassification(c.Request.Context(), tenantID, uuid.MustParse(idReq.ID), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, classification)
}
