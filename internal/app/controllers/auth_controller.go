package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	RequestOTP()
	VerifyOTP()
	Me()
	Logout()
	RealtimeToken()
}

// AuthController 处理登录相关请求
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// RequestOTPRequest 申请验证码
type RequestOTPRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// VerifyOTPRequest 校验验证码
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "requestOTP":
			controller.RequestOTP()
		case "verifyOTP":
			controller.VerifyOTP()
		case "me":
			controller.Me()
		case "logout":
			controller.Logout()
		case "realtimeToken":
			controller.RealtimeToken()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. RequestOTP 创建或更新用户并签发验证码，非生产环境返回 devCode
func (c *AuthController) RequestOTP() {
	var req RequestOTPRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c.Ctx)
		return
	}

	result, err := c.authService().RequestOTP(c.Ctx.Request.Context(), services.RequestOTPInput{
		Phone: req.Phone,
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	data := gin.H{"expiresAt": result.ExpiresAt.Unix()}
	if !c.Container.GetConfig().IsProduction() {
		data["devCode"] = result.Code
	}
	response.OK(c.Ctx, data)
}

// 2. VerifyOTP 消费验证码并建立会话
func (c *AuthController) VerifyOTP() {
	var req VerifyOTPRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c.Ctx)
		return
	}

	ctx := c.Ctx.Request.Context()
	user, err := c.authService().VerifyOTP(ctx, req.Phone, req.Code)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}

	sessions := c.sessionService()
	sid, err := sessions.Create(ctx, user)
	if err != nil {
		response.Error(c.Ctx, code.Wrap(code.ErrInternal, err))
		return
	}
	c.setSessionCookie(sid, int(sessions.TTL().Seconds()))

	Logger.Info("用户登录: id=%d role=%s", user.ID, user.Role)
	response.OK(c.Ctx, gin.H{"user": user})
}

// 3. Me 当前用户，未登录时 user 为 null
func (c *AuthController) Me() {
	response.JSON(c.Ctx, gin.H{"user": middleware.CurrentUser(c.Ctx)})
}

// 4. Logout 删除会话并清除 cookie
func (c *AuthController) Logout() {
	if sid := middleware.SessionID(c.Ctx); sid != "" {
		if err := c.sessionService().Destroy(c.Ctx.Request.Context(), sid); err != nil {
			Logger.Warning("删除会话失败: %v", err)
		}
	}
	c.setSessionCookie("", -1)
	response.OK(c.Ctx, nil)
}

// 5. RealtimeToken 签发实时通道握手令牌
func (c *AuthController) RealtimeToken() {
	user := middleware.CurrentUser(c.Ctx)
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	token, expiresAt, err := jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		response.Error(c.Ctx, code.Wrap(code.ErrInternal, err))
		return
	}
	response.JSON(c.Ctx, gin.H{"token": token, "expiresAt": expiresAt.Unix()})
}

func (c *AuthController) setSessionCookie(value string, maxAge int) {
	cfg := c.Container.GetConfig()
	c.Ctx.SetSameSite(http.SameSiteLaxMode)
	c.Ctx.SetCookie(cfg.SessionCookieName, value, maxAge, "/", "", cfg.CookieSecure, true)
}

func (c *AuthController) authService() services.InterfaceAuthService {
	return c.Container.GetService("auth").(services.InterfaceAuthService)
}

func (c *AuthController) sessionService() services.InterfaceSessionService {
	return c.Container.GetService("session").(services.InterfaceSessionService)
}
