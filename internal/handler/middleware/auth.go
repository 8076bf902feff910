package middleware

import (
	"log/slog"
	"strings"

	"medrecords-gateway/internal/pkg/cookie"
	"medrecords-gateway/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey       = "user_id"
	ctxUserRoleKey     = "user_role"
	ctxUserTenantIDKey = "user_tenant_id"
	ctxJWTClaimsKey    = "jwt_claims"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

// OptionalAuth authenticates the request if a token is present, but does not abort on failure.
// Tenant resolution uses the user's tenant when no explicit header is sent.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		identity, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Debug("ignoring invalid token on optional auth", "error", err.Error())
			c.Next()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func setIdentity(c *gin.Context, identity usecase.TokenIdentity) {
	c.Set(ctxUserIDKey, identity.UserID)
	c.Set(ctxUserRoleKey, identity.Role)
	claims := map[string]any{
		"user_id": identity.UserID.String(),
		"role":    identity.Role,
	}
	if identity.TenantID != uuid.Nil {
		c.Set(ctxUserTenantIDKey, identity.TenantID)
		claims["tenant_id"] = identity.TenantID.String()
	}
	c.Set(ctxJWTClaimsKey, claims)
}

// GetUserTenantID returns the tenant carried by the authenticated user's token.
func GetUserTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxUserTenantIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := v.(uuid.UUID)
	return id, ok
}
