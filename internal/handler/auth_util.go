package handler

import (
	"github.com/gin-gonic/gin"

	"school-portal-api/internal/middleware"
)

// credentialFrom returns the bearer credential placed in the context by middleware.Credential,
// or "" when the request carried none.
func credentialFrom(c *gin.Context) string {
	token, exists := c.Get(middleware.CredentialKey)
	if !exists {
		return ""
	}
	tokenStr, ok := token.(string)
	if !ok {
		return ""
	}
	return tokenStr
}
