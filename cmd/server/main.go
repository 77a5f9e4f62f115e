package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kingnahee2-droid/CareWell/internal/app/routes"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/database"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
)

func main() {
	// 加载.env文件，失败时继续使用已有环境变量
	envErr := godotenv.Load()

	// 获取配置
	cfg := config.GetConfig()

	// 初始化日志配置
	if err := Logger.SetupLogger(Logger.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Dir:         cfg.LogDir,
		ServiceName: "carewell",
	}); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}
	defer Logger.Sync()

	if envErr != nil {
		Logger.Warning("无法加载.env文件: %v", envErr)
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 创建数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		Logger.Error("无法创建数据库连接池: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Migrate(cfg.DBMigrationMode); err != nil {
		Logger.Error("数据库迁移失败: %v", err)
		os.Exit(1)
	}

	// 在线状态与事件推送
	registry := realtime.NewRegistry()
	var relayOpts []realtime.RelayOption
	if cfg.MQTTEnabled {
		mirror := realtime.NewMQTTMirror(cfg, Logger.L())
		if err := mirror.Connect(3); err != nil {
			// MQTT 只是镜像，连不上不影响服务
			Logger.Warning("MQTT连接失败，事件镜像已禁用: %v", err)
		} else {
			defer mirror.Close()
			relayOpts = append(relayOpts, realtime.WithMirror(mirror))
		}
	}
	relay := realtime.NewRelay(registry, relayOpts...)

	// 会话存储：redis 或内存
	var redisService services.InterfaceRedisService
	if cfg.SessionStore == "redis" {
		redisService = services.NewRedisService(cfg)
	}

	serviceContainer := container.NewServiceContainer(pool.GetDB(), cfg, relay, redisService)
	defer serviceContainer.Cleanup()

	wsServer := realtime.NewServer(registry, serviceContainer.RealtimeAuthenticator(), cfg.CORSAllowedOrigin, Logger.L())
	r := routes.SetupRouter(serviceContainer, wsServer)

	printSystemInfo(pool)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		Logger.Info("服务器启动在: http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Error("启动服务器失败: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("服务器关闭失败: %v", err)
	}
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	if stats, err := pool.Stats(); err == nil {
		Logger.Info("数据库连接池状态: %+v", stats)
	}

	Logger.Info("系统CPU核心数: %d", runtime.NumCPU())
	Logger.Info("当前Go协程数: %d", runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	Logger.Info("系统内存使用: Alloc=%v MiB, Sys=%v MiB", m.Alloc/1024/1024, m.Sys/1024/1024)
}
