package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/database"
)

// presenceStats 在线统计，由 *realtime.Relay 提供
type presenceStats interface {
	OnlineStats() map[models.Role]int
}

// HealthController 健康检查控制器
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			response.Fail(ctx, code.ErrNotFound)
		}
	}
}

// 1. Ping 存活检查
func (h *HealthController) Ping() {
	response.JSON(h.Ctx, gin.H{"status": "ok"})
}

// 2. Status 数据库与 Redis 状态，数据库不可用时返回 503
func (h *HealthController) Status() {
	ctx, cancel := context.WithTimeout(h.Ctx.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{}
	status := "ok"
	httpStatus := http.StatusOK

	if err := database.HealthCheck(ctx, h.Container.GetDB()); err != nil {
		components["database"] = "down"
		status = "down"
		httpStatus = http.StatusServiceUnavailable
	} else {
		components["database"] = "up"
	}

	if redisService := h.Container.GetRedisService(); redisService != nil {
		if err := redisService.Ping(ctx); err != nil {
			components["redis"] = "down"
			if status == "ok" {
				status = "degraded"
			}
		} else {
			components["redis"] = "up"
		}
	}

	data := gin.H{
		"status":     status,
		"components": components,
		"cache":      middleware.CacheStats(),
	}
	if stats, err := database.PoolStats(h.Container.GetDB()); err == nil {
		data["pool"] = stats
	}
	if presence, ok := h.Container.Realtime().(presenceStats); ok {
		data["online"] = presence.OnlineStats()
	}
	h.Ctx.JSON(httpStatus, data)
}
