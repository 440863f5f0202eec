package handler

import (
	appbanking "github.com/azalscore/backend/internal/application/banking"
	"github.com/azalscore/backend/internal/interfaces/http/dto"
	"github.com/azalscore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BankingHandler handles bank connection and account API endpoints
type BankingHandler struct {
	BaseHandler
	service *appbanking.SyncService
}

// NewBankingHandler creates a new BankingHandler
func NewBankingHandler(service *appbanking.SyncService) *BankingHandler {
	return &BankingHandler{service: service}
}

// CreateConnection registers a bank connection. Credentials are sealed
// before they reach the database and never appear in responses.
func (h *BankingHandler) CreateConnection(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req appbanking.CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	conn, err := h.service.CreateConnection(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, conn)
}

// ListConnections returns all bank connections for the tenant
func (h *BankingHandler) ListConnections(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	conns, err := h.service.ListConnections(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, conns)
}

// RevokeConnection deactivates a connection so it no longer syncs
func (h *BankingHandler) RevokeConnection(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	conn, err := h.service.RevokeConnection(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, conn)
}

// Sync pulls accounts and transactions from the provider
func (h *BankingHandler) Sync(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid connection ID")
		return
	}

	result, err := h.service.Sync(c.Request.Context(), tenantID, uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListAccounts returns all synced bank accounts for the tenant
func (h *BankingHandler) ListAccounts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil || tenantID == uuid.Nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	accounts, err := h.service.ListAccounts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}
