// Package middleware provides gin middleware guarding routes by permission level.
package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/crudgen/internal/core/permission"
	"github.com/example/crudgen/internal/ports/primary"
	"github.com/example/crudgen/internal/ports/secondary"
)

const (
	// DeniedPath is where refused requests are redirected.
	DeniedPath = "/sempermissao"

	// DeniedMessage is flashed to the denied page.
	DeniedMessage = "Você não tem permissão para acessar esta página."

	// FlashCookie carries the flash message across the redirect.
	FlashCookie = "flash_error"

	// UserHeader is read by HeaderUserResolver.
	UserHeader = "X-User-ID"

	// LevelKey holds the caller's level in the gin context once allowed.
	LevelKey = "permission_level"
)

// UserResolver extracts the authenticated user from a request. ok is false
// for anonymous requests.
type UserResolver func(c *gin.Context) (userID int64, ok bool)

// HeaderUserResolver reads the user id from the X-User-ID header.
func HeaderUserResolver(c *gin.Context) (int64, bool) {
	return parseUserID(c.GetHeader(UserHeader))
}

// ContextUserResolver reads the user id stored under key by an earlier
// authentication middleware.
func ContextUserResolver(key string) UserResolver {
	return func(c *gin.Context) (int64, bool) {
		v, exists := c.Get(key)
		if !exists {
			return 0, false
		}
		switch id := v.(type) {
		case int64:
			return id, id > 0
		case int:
			return int64(id), id > 0
		case string:
			return parseUserID(id)
		default:
			return 0, false
		}
	}
}

func parseUserID(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// PermissionMiddleware checks callers against a required permission level.
type PermissionMiddleware struct {
	service primary.PermissionService
	resolve UserResolver
	logger  *zap.Logger
}

// NewPermissionMiddleware creates a new PermissionMiddleware. A nil resolver
// falls back to HeaderUserResolver.
func NewPermissionMiddleware(service primary.PermissionService, resolve UserResolver, logger *zap.Logger) *PermissionMiddleware {
	if resolve == nil {
		resolve = HeaderUserResolver
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionMiddleware{
		service: service,
		resolve: resolve,
		logger:  logger,
	}
}

// RequirePermission lets a request through only when the caller's level is
// at most level. Anything else is redirected to DeniedPath.
func (m *PermissionMiddleware) RequirePermission(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		userID, ok := m.resolve(c)
		if !ok {
			result := permission.CanAccess(permission.AccessContext{RequiredLevel: level})
			m.logger.Info("permission denied",
				zap.String("path", path),
				zap.Int("required_level", level),
				zap.String("reason", result.Reason),
			)
			m.deny(c)
			return
		}

		decision, err := m.service.CheckAccess(c.Request.Context(), userID, level)
		if errors.Is(err, secondary.ErrUserNotFound) {
			m.logger.Info("permission denied",
				zap.String("path", path),
				zap.Int64("user_id", userID),
				zap.Int("required_level", level),
				zap.String("reason", "unknown user"),
			)
			m.deny(c)
			return
		}
		if err != nil {
			m.logger.Error("permission check failed",
				zap.String("path", path),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "falha ao verificar permissão"})
			return
		}

		if !decision.Allowed {
			m.logger.Info("permission denied",
				zap.String("path", path),
				zap.Int64("user_id", userID),
				zap.Int("user_level", decision.UserLevel),
				zap.Int("required_level", level),
				zap.String("reason", decision.Reason),
			)
			m.deny(c)
			return
		}

		m.logger.Debug("permission granted",
			zap.String("path", path),
			zap.Int64("user_id", userID),
			zap.Int("user_level", decision.UserLevel),
		)
		c.Set(LevelKey, decision.UserLevel)
		c.Next()
	}
}

func (m *PermissionMiddleware) deny(c *gin.Context) {
	// gin escapes cookie values on write and unescapes them on read.
	c.SetCookie(FlashCookie, DeniedMessage, 60, "/", "", false, true)
	c.Redirect(http.StatusFound, DeniedPath)
	c.Abort()
}

// Denied serves DeniedPath, consuming the flash message if present.
func (m *PermissionMiddleware) Denied(c *gin.Context) {
	msg := DeniedMessage
	if flash, err := c.Cookie(FlashCookie); err == nil {
		if flash != "" {
			msg = flash
		}
		c.SetCookie(FlashCookie, "", -1, "/", "", false, true)
	}
	c.JSON(http.StatusForbidden, gin.H{"error": msg})
}

// Register mounts the denied page on r.
func (m *PermissionMiddleware) Register(r gin.IRoutes) {
	r.GET(DeniedPath, m.Denied)
}
