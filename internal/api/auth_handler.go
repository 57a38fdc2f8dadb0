package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// AuthHandler serves sign-in and session endpoints.
type AuthHandler struct {
	auth    core.AuthService
	members core.MemberService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth core.AuthService, members core.MemberService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, members: members, logger: logger}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RequestPasswordReset handles POST /auth/password-reset. The answer is the
// same whether or not the address is registered.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, SuccessResponse{Message: "If the address is registered, a reset link has been sent."})
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	m, err := h.members.Get(c.Request.Context(), actor, actor.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// RegisterPushToken handles POST /auth/push-token
func (h *AuthHandler) RegisterPushToken(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	if err := h.auth.RegisterPushToken(c.Request.Context(), actor, req.Token); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
