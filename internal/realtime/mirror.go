package realtime

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
)

const publishTimeout = 2 * time.Second

// MQTTMirror 将投递给用户的事件同时发布到 MQTT 主题
// <prefix>/users/<userId>/<event>，事件名中的 ':' 替换为 '/'
type MQTTMirror struct {
	client mqtt.Client
	prefix string
	logger *zap.Logger

	connectedMutex sync.RWMutex
	isConnected    bool
}

// NewMQTTMirror 根据配置创建 MQTT 客户端，不立即连接
func NewMQTTMirror(cfg *config.Config, logger *zap.Logger) *MQTTMirror {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}

	m := newMQTTMirror(nil, cfg.MQTTTopicPrefix, logger)
	opts.SetOnConnectHandler(func(mqtt.Client) { m.setConnected(true) })
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		m.setConnected(false)
		m.logger.Warn("mqtt connection lost", zap.Error(err))
	})
	m.client = mqtt.NewClient(opts)
	return m
}

func newMQTTMirror(client mqtt.Client, prefix string, logger *zap.Logger) *MQTTMirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = "carewell"
	}
	return &MQTTMirror{client: client, prefix: strings.TrimSuffix(prefix, "/"), logger: logger}
}

// Connect 连接 broker，失败按指数退避重试
func (m *MQTTMirror) Connect(maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		token := m.client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			m.setConnected(true)
			return nil
		}
		err = token.Error()
		backoff := time.Duration(1<<uint(i)) * time.Second
		m.logger.Warn("mqtt connect failed",
			zap.Int("attempt", i+1), zap.Int("max", maxRetries), zap.Duration("backoff", backoff), zap.Error(err))
		if i < maxRetries-1 {
			time.Sleep(backoff)
		}
	}
	return fmt.Errorf("mqtt connect failed after %d attempts: %v", maxRetries, err)
}

// Topic 返回用户事件主题
func (m *MQTTMirror) Topic(userID uint, event string) string {
	return fmt.Sprintf("%s/users/%d/%s", m.prefix, userID, strings.ReplaceAll(event, ":", "/"))
}

// Publish QoS0、非保留消息。未连接时丢弃，发布失败只记日志
func (m *MQTTMirror) Publish(userID uint, event string, payload interface{}) {
	if !m.connected() {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		m.logger.Warn("mqtt mirror marshal failed", zap.String("event", event), zap.Error(err))
		return
	}

	topic := m.Topic(userID, event)
	token := m.client.Publish(topic, 0, false, data)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			m.logger.Warn("mqtt publish timeout", zap.String("topic", topic))
			return
		}
		if err := token.Error(); err != nil {
			m.logger.Warn("mqtt publish failed", zap.String("topic", topic), zap.Error(err))
		}
	}()
}

// Close 断开连接
func (m *MQTTMirror) Close() {
	m.setConnected(false)
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(250)
	}
}

func (m *MQTTMirror) connected() bool {
	m.connectedMutex.RLock()
	defer m.connectedMutex.RUnlock()
	return m.isConnected && m.client != nil && m.client.IsConnected()
}

func (m *MQTTMirror) setConnected(v bool) {
	m.connectedMutex.Lock()
	m.isConnected = v
	m.connectedMutex.Unlock()
}
