package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/db"
	"hoa-backend-go/internal/models"
)

// Keys under which the authenticated caller is stored in the gin context.
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

// ErrorResponse mirrors api.ErrorResponse; it is declared here so the api
// package can import middleware without a cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// MemberLookup resolves a member document when the token carries no role claim.
type MemberLookup interface {
	GetByID(ctx context.Context, memberID string) (*models.Member, error)
}

// AuthMiddleware authenticates requests with Firebase ID tokens.
type AuthMiddleware struct {
	verifier TokenVerifier
	members  MemberLookup
	logger   *zap.Logger
}

// NewAuthMiddleware creates an AuthMiddleware. It panics on a nil verifier,
// which is a wiring mistake.
func NewAuthMiddleware(verifier TokenVerifier, members MemberLookup, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("AuthMiddleware requires a token verifier")
	}
	return &AuthMiddleware{verifier: verifier, members: members, logger: logger}
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// VerifyToken checks the bearer token and stores the caller's UID, e-mail
// and role in the context. The role comes from the "role" custom claim and
// falls back to the member document.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}
		idToken, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			m.logger.Info("rejected ID token", zap.String("client_ip", c.ClientIP()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		role, _ := token.Claims["role"].(string)
		if !validRole(role) {
			role, err = m.roleFromMember(c.Request.Context(), token.UID)
			if errors.Is(err, db.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Account is not a member of the association"})
				return
			}
			if err != nil {
				m.logger.Error("failed to resolve member role", zap.String("user_id", token.UID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve member role"})
				return
			}
		}

		c.Set(ContextUserID, token.UID)
		c.Set(ContextUserRole, role)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextUserEmail, email)
		}
		c.Next()
	}
}

func (m *AuthMiddleware) roleFromMember(ctx context.Context, uid string) (string, error) {
	if m.members == nil {
		return models.RoleMember, nil
	}
	member, err := m.members.GetByID(ctx, uid)
	if err != nil {
		return "", err
	}
	if !validRole(member.Role) {
		return models.RoleMember, nil
	}
	return member.Role, nil
}

func validRole(role string) bool {
	switch role {
	case models.RoleMember, models.RoleOfficer, models.RoleAdmin:
		return true
	}
	return false
}

// RequireRole lets the request through only when the caller holds one of roles.
// It must run after VerifyToken.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Insufficient role for this operation"})
	}
}

// RequireStaff admits officers and admins.
func RequireStaff() gin.HandlerFunc {
	return RequireRole(models.RoleOfficer, models.RoleAdmin)
}

// RequireAdmin admits admins only.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
