package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

// 上下文键
const (
	ContextUser      = "user"
	ContextSessionID = "session_id"
)

// RequireSession 必须携带有效会话，否则返回 401 {"error":"unauthorized"}；
// 存储读取失败返回 500 db_error
func RequireSession(c *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ok, err := loadSession(ctx, c)
		if err != nil {
			response.Error(ctx, err)
			ctx.Abort()
			return
		}
		if !ok {
			response.Unauthorized(ctx)
			return
		}
		ctx.Next()
	}
}

// OptionalSession 有会话时加载用户，没有也放行；存储读取失败返回 500
func OptionalSession(c *container.ServiceContainer) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if _, err := loadSession(ctx, c); err != nil {
			response.Error(ctx, err)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// RequireRole 要求当前用户为指定角色，需放在 RequireSession 之后
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil {
			response.Unauthorized(ctx)
			return
		}
		if user.Role != role {
			response.Forbidden(ctx)
			return
		}
		ctx.Next()
	}
}

// CurrentUser 当前登录用户，未登录返回 nil
func CurrentUser(ctx *gin.Context) *models.User {
	if v, ok := ctx.Get(ContextUser); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// SessionID 当前会话ID
func SessionID(ctx *gin.Context) string {
	return ctx.GetString(ContextSessionID)
}

// loadSession 返回 (true, nil) 表示已加载用户；(false, nil) 表示没有有效会话；
// err 非空表示存储层故障
func loadSession(ctx *gin.Context, c *container.ServiceContainer) (bool, error) {
	cfg := c.GetConfig()
	sid, err := ctx.Cookie(cfg.SessionCookieName)
	if err != nil || sid == "" {
		return false, nil
	}

	sessions := c.GetService("session").(services.InterfaceSessionService)
	session, err := sessions.Get(ctx.Request.Context(), sid)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return false, nil
		}
		return false, code.Wrap(code.ErrDatabase, err)
	}

	auth := c.GetService("auth").(services.InterfaceAuthService)
	user, err := auth.GetUser(ctx.Request.Context(), session.UserID)
	if err != nil {
		if code.Is(err, code.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	ctx.Set(ContextSessionID, sid)
	ctx.Set(ContextUser, user)
	return true, nil
}
