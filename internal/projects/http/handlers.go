package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpapi "github.com/rotaops/rota-backend/internal/api/http"
	"github.com/rotaops/rota-backend/internal/auth"
	"github.com/rotaops/rota-backend/internal/projects/service"
	rotservice "github.com/rotaops/rota-backend/internal/rotations/service"
	"github.com/rotaops/rota-backend/internal/schema"
)

type Handler struct {
	projects  *service.Service
	rotations *rotservice.Service
}

func New(projects *service.Service, rotations *rotservice.Service) *Handler {
	return &Handler{projects: projects, rotations: rotations}
}

// Register mounts the project routes on rg and the rotation route on
// rotations.
func (h *Handler) Register(rg, rotations *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)

	rotations.PUT("/:id", h.updateRotation)
}

func (h *Handler) create(c *gin.Context) {
	var payload schema.ProjectCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	projectID, err := h.projects.Create(c.Request.Context(), payload, auth.UID(c))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project_id": projectID})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context(), auth.UID(c))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	detail, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": detail.Project, "rotations": detail.Rotations})
}

type updateRotationReq struct {
	Assignees []string `json:"assignees"`
	Reviewers []string `json:"reviewers"`
}

func (h *Handler) updateRotation(c *gin.Context) {
	var req updateRotationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	rot, err := h.rotations.Update(c.Request.Context(), c.Param("id"), req.Assignees, req.Reviewers)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "rotation": rot})
}
