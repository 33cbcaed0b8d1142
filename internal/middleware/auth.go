package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"juridico/internal/domain"
	"juridico/internal/service"
)

// Gin context keys populated from a validated access token.
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
)

// AuthMiddleware rejects requests without a valid bearer access token.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			deny(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}
		claims, err := authService.ValidateToken(token)
		if err != nil {
			deny(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present. Guests
// placing orders from the storefront pass through anonymous.
func OptionalAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := authService.ValidateToken(token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			deny(c, http.StatusForbidden, "FORBIDDEN", "role not found in context")
			return
		}
		if !slices.Contains(roles, domain.UserRole(role)) {
			deny(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
			return
		}
		c.Next()
	}
}

// GetUserID returns domain.ErrUnauthorized for anonymous requests.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if id, ok := c.Get(ContextKeyUserID); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid, nil
		}
	}
	return uuid.Nil, domain.ErrUnauthorized
}

func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

func bearerToken(c *gin.Context) (string, bool) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

func setIdentity(c *gin.Context, claims *service.Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyRole, string(claims.Role))
}

// deny writes the handler.RespondError envelope.
func deny(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": message},
	})
}
