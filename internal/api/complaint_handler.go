package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// ComplaintHandler serves complaint filing and triage.
type ComplaintHandler struct {
	complaints core.ComplaintService
	logger     *zap.Logger
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(complaints core.ComplaintService, logger *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{complaints: complaints, logger: logger}
}

// File handles POST /complaints (multipart form, files under "attachments").
func (h *ComplaintHandler) File(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	attachments, closeAll, err := formFiles(c, "attachments")
	if err != nil {
		uploadError(c, err)
		return
	}
	defer closeAll()

	complaint, err := h.complaints.File(c.Request.Context(), actor, req, attachments)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

// List handles GET /complaints?status=
func (h *ComplaintHandler) List(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	complaints, err := h.complaints.List(c.Request.Context(), actor, c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// Get handles GET /complaints/:complaintId
func (h *ComplaintHandler) Get(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	complaint, err := h.complaints.Get(c.Request.Context(), actor, c.Param("complaintId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// UpdateStatus handles PATCH /complaints/:complaintId/status
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.UpdateComplaintStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	complaint, err := h.complaints.UpdateStatus(c.Request.Context(), actor, c.Param("complaintId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}
