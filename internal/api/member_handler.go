package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// MemberHandler serves the member directory and the caller's profile.
type MemberHandler struct {
	members core.MemberService
	logger  *zap.Logger
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(members core.MemberService, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{members: members, logger: logger}
}

// ListMembers handles GET /members?q=&limit=&startAfter=
func (h *MemberHandler) ListMembers(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	members, err := h.members.List(c.Request.Context(), actor, c.Query("q"), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, PageResponse{
		Items:          members,
		NextStartAfter: nextCursor(len(members), core.ClampPage(page).Limit, func() string { return members[len(members)-1].ID }),
	})
}

// GetMember handles GET /members/:memberId
func (h *MemberHandler) GetMember(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	m, err := h.members.Get(c.Request.Context(), actor, c.Param("memberId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GetProfile handles GET /profile
func (h *MemberHandler) GetProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	p, err := h.members.Profile(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile handles PATCH /profile
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	m, err := h.members.UpdateProfile(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// UpdatePhoto handles POST /profile/photo (multipart field "photo").
func (h *MemberHandler) UpdatePhoto(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	photo, closeFn, found, err := formFile(c, "photo")
	if err != nil {
		uploadError(c, err)
		return
	}
	defer closeFn()
	if !found {
		badRequest(c, "photo file is required", nil)
		return
	}
	m, err := h.members.UpdatePhoto(c.Request.Context(), actor, photo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
