package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"school-portal-api/internal/response"
)

// CredentialKey is the gin context key holding the caller's bearer credential
const CredentialKey = "credential"

// Credential extracts the bearer token from the Authorization header into the context.
// A missing header passes through with no credential so public routes keep working;
// mutating services reject the empty credential themselves.
func Credential() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		c.Set(CredentialKey, strings.TrimSpace(parts[1]))
		c.Next()
	}
}
