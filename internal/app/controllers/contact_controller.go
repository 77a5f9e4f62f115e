package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

// ContactController 处理联系人请求
type ContactController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewContactController 创建联系人控制器
func NewContactController(ctx *gin.Context, container *container.ServiceContainer) *ContactController {
	return &ContactController{
		Ctx:       ctx,
		Container: container,
	}
}

// AddContactRequest 按手机号添加联系人
type AddContactRequest struct {
	Phone string `json:"phone"`
}

// HandleContactFunc 返回一个处理联系人请求的Gin处理函数
func HandleContactFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewContactController(ctx, container)

		switch method {
		case "getContacts":
			controller.GetContacts()
		case "addContact":
			controller.AddContact()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. GetContacts 联系人列表（带在线状态）
func (c *ContactController) GetContacts() {
	user := middleware.CurrentUser(c.Ctx)
	contacts, err := c.contactService().ListContacts(c.Ctx.Request.Context(), user.ID)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.JSON(c.Ctx, gin.H{"contacts": contacts})
}

// 2. AddContact 按手机号建立双向联系人
func (c *ContactController) AddContact() {
	var req AddContactRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c.Ctx)
		return
	}

	user := middleware.CurrentUser(c.Ctx)
	contact, err := c.contactService().AddContactByPhone(c.Ctx.Request.Context(), user, req.Phone)
	if err != nil {
		response.Error(c.Ctx, err)
		return
	}
	response.OK(c.Ctx, gin.H{"contact": contact})
}

func (c *ContactController) contactService() services.InterfaceContactService {
	return c.Container.GetService("contact").(services.InterfaceContactService)
}
