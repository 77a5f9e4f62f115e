package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

// NotifyController 处理家属手动提醒
type NotifyController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewNotifyController 创建提醒控制器
func NewNotifyController(ctx *gin.Context, container *container.ServiceContainer) *NotifyController {
	return &NotifyController{
		Ctx:       ctx,
		Container: container,
	}
}

// NotifyParentRequest 提醒请求，ParentID 为空时提醒所有老人联系人
type NotifyParentRequest struct {
	ParentID uint   `json:"parentId"`
	Message  string `json:"message"`
}

// HandleNotifyFunc 返回一个处理提醒请求的Gin处理函数
func HandleNotifyFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewNotifyController(ctx, container)

		switch method {
		case "notifyParent":
			controller.NotifyParent()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. NotifyParent 推送 exercise:reminder
func (c *NotifyController) NotifyParent() {
	var req NotifyParentRequest
	// 允许空请求体
	if c.Ctx.Request.ContentLength != 0 {
		if err := c.Ctx.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c.Ctx)
			return
		}
	}

	user := middleware.CurrentUser(c.Ctx)
	notify := c.Container.GetService("notify").(services.InterfaceNotifyService)
	recipients, err := notify.RemindParents(c.Ctx.Request.Context(), user, req.ParentID, req.Message)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.OK(c.Ctx, gin.H{"recipients": recipients})
}
