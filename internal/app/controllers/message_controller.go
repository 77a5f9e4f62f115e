package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

// MessageController 处理聊天消息请求
type MessageController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMessageController 创建消息控制器
func NewMessageController(ctx *gin.Context, container *container.ServiceContainer) *MessageController {
	return &MessageController{
		Ctx:       ctx,
		Container: container,
	}
}

// SendMessageRequest 发送消息。ToAll 为 true 时群发给所有联系人
type SendMessageRequest struct {
	RecipientID uint   `json:"recipientId"`
	Content     string `json:"content"`
	ToAll       bool   `json:"toAll"`
}

// HandleMessageFunc 返回一个处理消息请求的Gin处理函数
func HandleMessageFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMessageController(ctx, container)

		switch method {
		case "getHistory":
			controller.GetHistory()
		case "sendMessage":
			controller.SendMessage()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. GetHistory 与某联系人的聊天记录
func (c *MessageController) GetHistory() {
	contactID, err := strconv.ParseUint(c.Ctx.Param("contactId"), 10, 64)
	if err != nil || contactID == 0 {
		response.Fail(c.Ctx, code.ErrInvalidContactID)
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	messages, err := c.messageService().History(c.Ctx.Request.Context(), user.ID, uint(contactID))
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"messages": messages})
}

// 2. SendMessage 单发或群发
func (c *MessageController) SendMessage() {
	var req SendMessageRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c.Ctx)
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	ctx := c.Ctx.Request.Context()

	if req.ToAll {
		count, err := c.messageService().SendGroup(ctx, user, req.Content)
		if err != nil {
			if count == 0 {
				response.Error(c.Ctx, err)
				return
			}
			// 部分发送成功，返回已写入的条数
			errorCode := code.Of(err)
			c.Ctx.JSON(code.GetStatus(errorCode), gin.H{"error": errorCode, "count": count})
			return
		}
		response.OK(c.Ctx, gin.H{"count": count})
		return
	}

	msg, err := c.messageService().SendDirect(ctx, user, req.RecipientID, req.Content)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.OK(c.Ctx, gin.H{"id": msg.ID, "count": 1})
}

func (c *MessageController) messageService() services.InterfaceMessageService {
	return c.Container.GetService("message").(services.InterfaceMessageService)
}
