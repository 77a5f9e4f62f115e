package realtime

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
)

// ErrHandshakeRejected 握手认证失败
var ErrHandshakeRejected = errors.New("realtime: handshake rejected")

// Authenticator 校验握手请求，返回连接所属用户和角色
type Authenticator interface {
	Authenticate(r *http.Request) (uint, models.Role, error)
}

// Server 处理 /ws 升级请求并维护连接生命周期
type Server struct {
	registry *Registry
	auth     Authenticator
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewServer 创建实时服务。allowedOrigin 为空时只允许同源
func NewServer(registry *Registry, auth Authenticator, allowedOrigin string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		registry: registry,
		auth:     auth,
		logger:   logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return checkOrigin(r, allowedOrigin)
		},
	}
	return s
}

// ServeHTTP 认证 -> 升级 -> 登记 -> 读写循环 -> 释放
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, role, err := s.auth.Authenticate(r)
	if err != nil {
		s.logger.Info("realtime handshake rejected", zap.String("remote", r.RemoteAddr), zap.Error(err))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("realtime upgrade failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	client := newClient(userID, ws, s.logger)
	s.registry.Register(userID, client, role)
	s.logger.Info("realtime connected", zap.Uint("user_id", userID), zap.String("role", string(role)))

	go client.writePump()
	client.readPump()

	_ = client.Close()
	if s.registry.Release(userID, client) {
		s.logger.Info("realtime disconnected", zap.Uint("user_id", userID))
	}
}

func checkOrigin(r *http.Request, allowedOrigin string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if allowedOrigin != "" && origin == allowedOrigin {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
