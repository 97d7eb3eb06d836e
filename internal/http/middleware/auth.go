package middleware

import (
	"net/http"
	"strings"

	"todo_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientIDKey is the gin context key holding the authenticated client id.
const ClientIDKey = "client_id"

// JWT requires a valid bearer token when a JWT secret is configured and
// passes everything through otherwise.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !service.JWTEnabled() {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		clientID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClientIDKey, clientID)
		c.Next()
	}
}
