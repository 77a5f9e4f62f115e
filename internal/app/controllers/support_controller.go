package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

// SupportController 处理客服会话
type SupportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewSupportController 创建客服控制器
func NewSupportController(ctx *gin.Context, container *container.ServiceContainer) *SupportController {
	return &SupportController{
		Ctx:       ctx,
		Container: container,
	}
}

// SupportRequest 用户发给客服的消息
type SupportRequest struct {
	Content string `json:"content"`
}

// HandleSupportFunc 返回一个处理客服请求的Gin处理函数
func HandleSupportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewSupportController(ctx, container)

		switch method {
		case "getThread":
			controller.GetThread()
		case "ask":
			controller.Ask()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. GetThread 客服会话记录
func (c *SupportController) GetThread() {
	user := middleware.CurrentUser(c.Ctx)
	messages, err := c.supportService().Thread(c.Ctx.Request.Context(), user.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"messages": messages})
}

// 2. Ask 发送消息并获得自动回复
func (c *SupportController) Ask() {
	var req SupportRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c.Ctx)
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	reply, err := c.supportService().Ask(c.Ctx.Request.Context(), user.ID, req.Content)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.OK(c.Ctx, gin.H{"reply": reply})
}

func (c *SupportController) supportService() services.InterfaceSupportService {
	return c.Container.GetService("support").(services.InterfaceSupportService)
}
