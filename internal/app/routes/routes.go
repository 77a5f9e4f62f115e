package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/app/controllers"
	"github.com/kingnahee2-droid/CareWell/internal/app/middleware"
	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
)

// SetupRouter 初始化并返回配置好的路由，ws 为实时通道处理器（可为空）
func SetupRouter(container *container.ServiceContainer, ws http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 前端跨域携带 cookie
	r.Use(middleware.CORS(container.GetConfig().CORSAllowedOrigin))

	if ws != nil {
		r.GET("/ws", gin.WrapH(ws))
	}

	registerRoutes(r, container)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	// 全局IP限流 - 每秒20个请求，最多突发60个
	api.Use(middleware.IPRateLimiter(20, 60))

	registerPublicRoutes(api, container)
	registerAuthRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 健康检查
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "status"))
}

// registerAuthRoutes 登录相关路由
func registerAuthRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	auth := api.Group("/auth")

	// 验证码接口按IP+路径限流 - 每秒1个请求，最多突发5个
	otp := auth.Group("", middleware.CombinedRateLimiter(1, 5))
	{
		otp.POST("/request-otp", controllers.HandleAuthFunc(container, "requestOTP"))
		otp.POST("/verify-otp", controllers.HandleAuthFunc(container, "verifyOTP"))
	}

	optional := auth.Group("", middleware.OptionalSession(container))
	{
		optional.GET("/me", controllers.HandleAuthFunc(container, "me"))
		optional.POST("/logout", controllers.HandleAuthFunc(container, "logout"))
	}

	auth.GET("/realtime-token", middleware.RequireSession(container), controllers.HandleAuthFunc(container, "realtimeToken"))
}

// registerAuthenticatedRoutes 需要会话的业务路由
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	authorized := api.Group("", middleware.RequireSession(container))

	// 联系人
	contacts := authorized.Group("/contacts")
	{
		contacts.GET("", controllers.HandleContactFunc(container, "getContacts"))
		contacts.POST("/add", controllers.HandleContactFunc(container, "addContact"))
	}

	// 消息
	messages := authorized.Group("/messages")
	{
		messages.GET("/:contactId", controllers.HandleMessageFunc(container, "getHistory"))
		messages.POST("", controllers.HandleMessageFunc(container, "sendMessage"))
	}

	// 运动记录
	exercise := authorized.Group("/exercise")
	{
		exercise.POST("", controllers.HandleExerciseFunc(container, "logExercise"))
		exercise.GET("/today", controllers.HandleExerciseFunc(container, "getToday"))
		exercise.GET("/records", controllers.HandleExerciseFunc(container, "getRecords"))
		exercise.GET("/export", controllers.HandleExerciseFunc(container, "export"))

		// 汇总接口缓存30秒，新记录写入时按用户清除
		summary := exercise.Group("/summary", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}))
		summary.GET("/week", controllers.HandleExerciseFunc(container, "getWeekSummary"))
		summary.GET("/month", controllers.HandleExerciseFunc(container, "getMonthSummary"))
	}

	// 通知设置
	settings := authorized.Group("/settings")
	{
		settings.GET("", controllers.HandleSettingsFunc(container, "getSettings"))
		settings.POST("", controllers.HandleSettingsFunc(container, "updateSettings"))
	}

	// 家属手动提醒
	authorized.POST("/notify/parent", middleware.RequireRole(models.RoleFamily), controllers.HandleNotifyFunc(container, "notifyParent"))

	// 客服
	support := authorized.Group("/support")
	{
		support.GET("", controllers.HandleSupportFunc(container, "getThread"))
		support.POST("", controllers.HandleSupportFunc(container, "ask"))
	}
}
