package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
)

// AuditHandler lists audit log entries for admins.
type AuditHandler struct {
	audit  core.AuditService
	logger *zap.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(audit core.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{audit: audit, logger: logger}
}

// List handles GET /audit-logs?limit=
func (h *AuditHandler) List(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	logs, err := h.audit.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
