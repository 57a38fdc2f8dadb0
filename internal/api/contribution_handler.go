package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// ContributionHandler serves dues payments.
type ContributionHandler struct {
	accounting core.AccountingService
	logger     *zap.Logger
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(accounting core.AccountingService, logger *zap.Logger) *ContributionHandler {
	return &ContributionHandler{accounting: accounting, logger: logger}
}

// ListOwn handles GET /contributions?year=
func (h *ContributionHandler) ListOwn(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	year, ok := intQuery(c, "year")
	if !ok {
		return
	}
	list, err := h.accounting.ListOwn(c.Request.Context(), actor, year)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListForAccount handles GET /accounts/:accountNumber/contributions?year=
func (h *ContributionHandler) ListForAccount(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		return
	}
	list, err := h.accounting.ListForAccount(c.Request.Context(), c.Param("accountNumber"), year)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Submit handles POST /contributions (multipart form with file "proof").
func (h *ContributionHandler) Submit(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.SubmitContributionRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	proof, closeFn, found, err := formFile(c, "proof")
	if err != nil {
		uploadError(c, err)
		return
	}
	defer closeFn()
	if !found {
		badRequest(c, "proof file is required", nil)
		return
	}
	contribution, err := h.accounting.Submit(c.Request.Context(), actor, req, proof)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, contribution)
}

// UpdateStatus handles PATCH /contributions/:contributionId/status
func (h *ContributionHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.UpdateContributionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	contribution, err := h.accounting.UpdateStatus(c.Request.Context(), actor, c.Param("contributionId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contribution)
}
