package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUID   = "uid"
	CtxEmail = "email"
)

// UID extracts the identity-provider user id from the Gin context.
// Set by TokenMiddleware.
func UID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUID))
}

// Email extracts the session email from the Gin context.
func Email(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}
