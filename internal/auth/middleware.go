package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaushang/Groovia/pkg/token"
)

// Middleware validates the guest-session token and exposes the caller's
// identity to handlers. The token is read from the Authorization header,
// the auth_token cookie, or the token query param (for WebSocket upgrades).
func Middleware(issuer *token.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No session token"})
			return
		}

		claims, err := issuer.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}
