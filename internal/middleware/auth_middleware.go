package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/courseselect/internal/app/models/dto"
	"github.com/yigit/courseselect/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userId"
	ContextRoleType = "roleType"
)

// AuthMiddleware provides JWT authentication and role checks
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth validates the Authorization header and stores the caller's
// identity in the request context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Missing authorization header")))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid authorization header format")))
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			if err == auth.ErrExpiredToken {
				code = dto.ErrorCodeExpiredToken
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.NewErrorDetail(code, "Invalid or expired token")))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRoleType, claims.RoleType)
		c.Next()
	}
}

// RoleRequired rejects callers whose role is not in the allowed set
func (m *AuthMiddleware) RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRoleType)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Insufficient role")))
	}
}

// UserIDFromContext returns the authenticated user's id
func UserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
