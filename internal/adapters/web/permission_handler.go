// Package web exposes permission management over HTTP with gin.
package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/crudgen/internal/core/permission"
	"github.com/example/crudgen/internal/middleware"
	"github.com/example/crudgen/internal/ports/primary"
)

// PermissionHandler serves the permission admin endpoints.
type PermissionHandler struct {
	service primary.PermissionService
	guard   *middleware.PermissionMiddleware
	logger  *zap.Logger
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(service primary.PermissionService, guard *middleware.PermissionMiddleware, logger *zap.Logger) *PermissionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionHandler{
		service: service,
		guard:   guard,
		logger:  logger,
	}
}

type permissionRequest struct {
	Nome      string `json:"nome" binding:"required,max=255"`
	Nivel     *int   `json:"nivel" binding:"required,min=0"`
	Descricao string `json:"descricao" binding:"max=255"`
	Ativo     *bool  `json:"ativo"`
}

type permissionResponse struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	Nivel     int    `json:"nivel"`
	Descricao string `json:"descricao"`
	Ativo     bool   `json:"ativo"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toResponse(p *primary.Permission) permissionResponse {
	return permissionResponse{
		ID:        p.ID,
		Nome:      p.Name,
		Nivel:     p.Level,
		Descricao: p.Description,
		Ativo:     p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Register mounts the routes. Managing permissions requires administrator level.
func (h *PermissionHandler) Register(r *gin.Engine) {
	h.guard.Register(r)

	g := r.Group("/permissao", h.guard.RequirePermission(permission.LevelAdministrator))
	g.GET("", h.Index)
	g.POST("", h.Store)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Destroy)
}

// Index lists live permissions, newest first.
func (h *PermissionHandler) Index(c *gin.Context) {
	permissions, err := h.service.ListPermissions(c.Request.Context())
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]permissionResponse, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, toResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"permissoes": out})
}

// Store creates a permission.
func (h *PermissionHandler) Store(c *gin.Context) {
	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	p, err := h.service.CreatePermission(c.Request.Context(), primary.CreatePermissionRequest{
		Name:        req.Nome,
		Level:       *req.Nivel,
		Description: req.Descricao,
	})
	if err != nil {
		h.fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Permissão criada com sucesso!", "permissao": toResponse(p)})
}

// Update replaces a permission's fields.
func (h *PermissionHandler) Update(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}

	var req permissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Ativo != nil {
		active = *req.Ativo
	}
	err := h.service.UpdatePermission(c.Request.Context(), primary.UpdatePermissionRequest{
		ID:          id,
		Name:        req.Nome,
		Level:       *req.Nivel,
		Description: req.Descricao,
		Active:      active,
	})
	if err != nil {
		h.fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permissão atualizada com sucesso!"})
}

// Destroy soft deletes a permission.
func (h *PermissionHandler) Destroy(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}

	if err := h.service.DeletePermission(c.Request.Context(), id); err != nil {
		h.fail(c, http.StatusUnprocessableEntity, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Permissão excluída com sucesso!"})
}

func (h *PermissionHandler) id(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "permissão não encontrada"})
		return 0, false
	}
	return id, true
}

func (h *PermissionHandler) fail(c *gin.Context, status int, err error) {
	h.logger.Warn("permission request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	c.JSON(status, gin.H{"error": err.Error()})
}
