package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotaops/rota-backend/internal/accounts/service"
	httpapi "github.com/rotaops/rota-backend/internal/api/http"
	"github.com/rotaops/rota-backend/internal/auth"
	"github.com/rotaops/rota-backend/internal/schema"
)

type Handler struct {
	accounts *service.Service
}

func New(accounts *service.Service) *Handler {
	return &Handler{accounts: accounts}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.profile)
	rg.PUT("", h.update)
}

// profile returns the display name of the authenticated user.
func (h *Handler) profile(c *gin.Context) {
	session := service.Session{UID: auth.UID(c), Email: auth.Email(c)}

	name, err := h.accounts.Profile(c.Request.Context(), session)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": gin.H{"name": name}})
}

func (h *Handler) update(c *gin.Context) {
	var payload schema.AccountUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	session := service.Session{UID: auth.UID(c), Email: auth.Email(c)}
	if err := h.accounts.Update(c.Request.Context(), payload, session); err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
