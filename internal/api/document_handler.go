package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// DocumentHandler serves member documents.
type DocumentHandler struct {
	documents core.DocumentService
	logger    *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents core.DocumentService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{documents: documents, logger: logger}
}

// ListOwn handles GET /documents
func (h *DocumentHandler) ListOwn(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	docs, err := h.documents.ListOwn(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// ListForAccount handles GET /accounts/:accountNumber/documents
func (h *DocumentHandler) ListForAccount(c *gin.Context) {
	docs, err := h.documents.ListForAccount(c.Request.Context(), c.Param("accountNumber"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Upload handles POST /accounts/:accountNumber/documents (multipart, file "file").
func (h *DocumentHandler) Upload(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.UploadDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	file, closeFn, found, err := formFile(c, "file")
	if err != nil {
		uploadError(c, err)
		return
	}
	defer closeFn()
	if !found {
		badRequest(c, "file is required", nil)
		return
	}
	doc, err := h.documents.Upload(c.Request.Context(), actor, c.Param("accountNumber"), req, file)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// Delete handles DELETE /documents/:documentId
func (h *DocumentHandler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.documents.Delete(c.Request.Context(), actor, c.Param("documentId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
