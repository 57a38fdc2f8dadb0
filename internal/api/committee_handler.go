package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// CommitteeHandler serves the committee directory.
type CommitteeHandler struct {
	committee core.CommitteeService
	logger    *zap.Logger
}

// NewCommitteeHandler creates a new CommitteeHandler.
func NewCommitteeHandler(committee core.CommitteeService, logger *zap.Logger) *CommitteeHandler {
	return &CommitteeHandler{committee: committee, logger: logger}
}

// List handles GET /committee
func (h *CommitteeHandler) List(c *gin.Context) {
	members, err := h.committee.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// Create handles POST /committee
func (h *CommitteeHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CommitteeMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	m, err := h.committee.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Update handles PATCH /committee/:id
func (h *CommitteeHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CommitteeMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	m, err := h.committee.Update(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Delete handles DELETE /committee/:id
func (h *CommitteeHandler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.committee.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
