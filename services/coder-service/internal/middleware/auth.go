package middleware

import (
	"net/http"
	"strings"

	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "user_name"
)

// JwtAuth requires a valid access token in "Authorization: Bearer <token>".
func JwtAuth(tokens domain.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed Authorization header"})
			return
		}
		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			log.FromContext(c.Request.Context()).Debug("token rejected", "err", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.Subject != "access" || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		ctx := log.WithContext(c.Request.Context(), log.FromContext(c.Request.Context()).With("user_id", claims.UserID))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// UserID returns the authenticated user set by JwtAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
