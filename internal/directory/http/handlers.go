package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	httpapi "github.com/rotaops/rota-backend/internal/api/http"
	"github.com/rotaops/rota-backend/internal/auth"
	"github.com/rotaops/rota-backend/internal/directory/domain"
	"github.com/rotaops/rota-backend/internal/directory/service"
)

type Handler struct {
	directory *service.Service
}

func New(directory *service.Service) *Handler {
	return &Handler{directory: directory}
}

// Register mounts the admin user-directory routes. The group is expected to
// carry auth.AdminOnly already; the actor here re-reads the flags the gate
// left on the context.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/users", h.list)
	rg.GET("/users/:id", h.get)
	rg.PUT("/users/:id", h.update)
	rg.POST("/users/:id/reset-password", h.resetPassword)
	rg.DELETE("/users/:id", h.delete)
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{UID: auth.UID(c), IsAdmin: c.GetBool("is_admin")}
}

func (h *Handler) list(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil || pageSize < 1 {
		pageSize = 10
	}
	search := c.Query("search")

	result, err := h.directory.List(c.Request.Context(), page, pageSize, search, actorFrom(c))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "users": result.Users, "count": result.Count})
}

func (h *Handler) get(c *gin.Context) {
	detail, err := h.directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": detail})
}

type updateUserReq struct {
	Name       string `json:"name"`
	IsAdmin    bool   `json:"isAdmin"`
	Permission string `json:"permission"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	upd := domain.UserUpdate{
		ID:         c.Param("id"),
		Name:       req.Name,
		IsAdmin:    req.IsAdmin,
		Permission: domain.Permission(req.Permission),
	}
	if err := h.directory.Update(c.Request.Context(), upd, actorFrom(c)); err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) resetPassword(c *gin.Context) {
	if err := h.directory.ResetPassword(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.directory.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
