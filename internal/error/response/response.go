package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// OK 成功响应，自动带上 ok:true
func OK(c *gin.Context, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["ok"] = true
	c.JSON(http.StatusOK, data)
}

// JSON 原样返回数据（不附加ok字段）
func JSON(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, data)
}

// Fail 失败响应
func Fail(c *gin.Context, errorCode string) {
	c.JSON(code.GetStatus(errorCode), ErrorResponse{
		Error:   errorCode,
		Message: code.GetMessage(errorCode),
	})
}

// FailWithMessage 失败响应（自定义消息）
func FailWithMessage(c *gin.Context, errorCode string, message string) {
	c.JSON(code.GetStatus(errorCode), ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Error 根据业务错误输出响应，非业务错误记录日志后按 db_error 返回
func Error(c *gin.Context, err error) {
	errorCode := code.Of(err)
	if code.GetStatus(errorCode) >= http.StatusInternalServerError {
		Logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	Fail(c, errorCode)
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context) {
	Fail(c, code.ErrInvalidRequest)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: code.ErrUnauthorized})
}

// Forbidden 无权限响应
func Forbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: code.ErrForbidden})
}
