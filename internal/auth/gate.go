package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminReader resolves whether a profile carries the admin flag.
type AdminReader interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

// Allow is the admin gate: a valid session and the admin flag, nothing else.
func Allow(uid string, isAdmin bool) bool {
	return uid != "" && isAdmin
}

// AdminOnly denies a request before any admin handler runs: 401 without a
// session, 403 when the profile is missing the admin flag or cannot be
// read.
func AdminOnly(profiles AdminReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := UID(c)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "not authenticated"})
			c.Abort()
			return
		}

		isAdmin, err := profiles.IsAdmin(c.Request.Context(), uid)
		if err != nil || !Allow(uid, isAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "admin access required"})
			c.Abort()
			return
		}

		c.Set("is_admin", true)
		c.Next()
	}
}
