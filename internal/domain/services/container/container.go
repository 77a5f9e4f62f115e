package container

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
)

// Realtime 实时推送和在线状态，通常是 *realtime.Relay
type Realtime interface {
	services.EventRelay
	services.PresenceChecker
}

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db       *gorm.DB
	config   *config.Config
	realtime Realtime

	// 基础服务
	redisService   services.InterfaceRedisService
	jwtService     services.InterfaceJWTService
	sessionService services.InterfaceSessionService
	smsService     services.InterfaceSMSService

	// 业务服务
	authService     services.InterfaceAuthService
	contactService  services.InterfaceContactService
	messageService  services.InterfaceMessageService
	settingsService services.InterfaceSettingsService
	notifyService   services.InterfaceNotifyService
	exerciseService services.InterfaceExerciseService
	supportService  services.InterfaceSupportService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器。redisService 为空时会话存放在内存中
func NewServiceContainer(db *gorm.DB, cfg *config.Config, rt Realtime, redisService services.InterfaceRedisService) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	if rt == nil {
		panic("实时服务为空")
	}

	// 测试Redis连接
	if redisService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisService.Ping(ctx); err != nil {
			Logger.Warning("Redis连接测试失败: %v", err)
		}
	}

	container := &ServiceContainer{
		db:           db,
		config:       cfg,
		realtime:     rt,
		redisService: redisService,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.smsService = services.NewSMSService(c.config)

	var store services.SessionStore
	if c.redisService != nil {
		store = services.NewRedisSessionStore(c.redisService)
	} else {
		store = services.NewMemorySessionStore()
	}
	c.sessionService = services.NewSessionService(store, c.config.SessionTTL)

	// 初始化业务服务
	c.authService = services.NewAuthService(c.db, c.config, c.smsService)
	c.contactService = services.NewContactService(c.db, c.config, c.realtime, c.realtime)
	c.messageService = services.NewMessageService(c.db, c.config, c.contactService, c.realtime)
	c.settingsService = services.NewSettingsService(c.db, c.config)
	c.notifyService = services.NewNotifyService(c.contactService, c.settingsService, c.realtime)
	c.exerciseService = services.NewExerciseService(c.db, c.config, c.notifyService)
	c.supportService = services.NewSupportService(c.db, c.config, c.realtime)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "redis":
		return c.redisService
	case "jwt":
		return c.jwtService
	case "session":
		return c.sessionService
	case "sms":
		return c.smsService
	case "auth":
		return c.authService
	case "contact":
		return c.contactService
	case "message":
		return c.messageService
	case "settings":
		return c.settingsService
	case "notify":
		return c.notifyService
	case "exercise":
		return c.exerciseService
	case "support":
		return c.supportService
	default:
		return nil
	}
}

// GetConfig 返回配置
func (c *ServiceContainer) GetConfig() *config.Config {
	return c.config
}

// GetDB 返回数据库实例
func (c *ServiceContainer) GetDB() *gorm.DB {
	return c.db
}

// Realtime 返回实时推送服务
func (c *ServiceContainer) Realtime() Realtime {
	return c.realtime
}

// GetRedisService 返回Redis服务，未启用时为 nil
func (c *ServiceContainer) GetRedisService() services.InterfaceRedisService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.redisService
}

// RealtimeAuthenticator websocket 握手认证器
func (c *ServiceContainer) RealtimeAuthenticator() *services.RealtimeAuthenticator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return services.NewRealtimeAuthenticator(c.sessionService, c.jwtService, c.authService, c.config.SessionCookieName)
}

// Cleanup 释放资源
func (c *ServiceContainer) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.redisService != nil {
		if err := c.redisService.Close(); err != nil {
			Logger.Warning("关闭Redis连接失败: %v", err)
		}
	}
}
