package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hms-api/internal/service"
)

type BillingHandler struct {
	logger  *zap.Logger
	billing *service.BillingService
}

func NewBillingHandler(logger *zap.Logger, billing *service.BillingService) *BillingHandler {
	return &BillingHandler{logger: logger, billing: billing}
}

// List maneja GET /api/billing.
func (h *BillingHandler) List(c *gin.Context) {
	out, err := h.billing.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, err, "could not list billing")
		return
	}
	c.JSON(http.StatusOK, gin.H{"billing": out})
}

// Process maneja POST /api/billing.
func (h *BillingHandler) Process(c *gin.Context) {
	var req service.ProcessPaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid payment request", err)
		return
	}
	record, err := h.billing.Process(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.logger, err, "could not process payment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "payment processed",
		"transaction_id": record.TransactionID,
		"billing":        record,
	})
}

// History maneja GET /api/billing/history/:email.
func (h *BillingHandler) History(c *gin.Context) {
	out, err := h.billing.History(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeServiceError(c, h.logger, err, "could not load billing history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"billing": out})
}
