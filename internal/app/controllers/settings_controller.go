package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

// SettingsController 处理通知设置请求
type SettingsController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewSettingsController 创建设置控制器
func NewSettingsController(ctx *gin.Context, container *container.ServiceContainer) *SettingsController {
	return &SettingsController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleSettingsFunc 返回一个处理设置请求的Gin处理函数
func HandleSettingsFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewSettingsController(ctx, container)

		switch method {
		case "getSettings":
			controller.GetSettings()
		case "updateSettings":
			controller.UpdateSettings()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. GetSettings 读取设置，没有记录时返回默认值
func (c *SettingsController) GetSettings() {
	user := middleware.CurrentUser(c.Ctx)
	settings, err := c.settingsService().GetSettings(c.Ctx.Request.Context(), user.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"settings": settings})
}

// 2. UpdateSettings 部分更新
func (c *SettingsController) UpdateSettings() {
	var req services.SettingsUpdate
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c.Ctx)
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	settings, err := c.settingsService().UpdateSettings(c.Ctx.Request.Context(), user.ID, req)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.OK(c.Ctx, gin.H{"settings": settings})
}

func (c *SettingsController) settingsService() services.InterfaceSettingsService {
	return c.Container.GetService("settings").(services.InterfaceSettingsService)
}
