package middleware

import (
	"net/http"
	"strings"

	"meetwise/utils"

	"github.com/gin-gonic/gin"
)

// ConsoleAuthMiddleware guards the owner console endpoints with a bearer JWT
// issued from the configured console secret.
func ConsoleAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if _, err := utils.ValidateConsoleToken(tokenString); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized console access"})
			return
		}

		c.Set("isOwner", true)
		c.Next()
	}
}
