package realtime

import "github.com/kingnahee2-droid/CareWell/internal/domain/models"

// Mirror 事件镜像（例如 MQTT），发布失败不影响调用方
type Mirror interface {
	Publish(userID uint, event string, payload interface{})
}

// Relay 尽力而为的定向推送：用户在线就发，不在线就丢弃。
// 不排队、不重试、不回执。
type Relay struct {
	registry *Registry
	mirror   Mirror
}

// RelayOption relay 选项
type RelayOption func(*Relay)

// WithMirror 附加事件镜像
func WithMirror(m Mirror) RelayOption {
	return func(r *Relay) {
		r.mirror = m
	}
}

// NewRelay 创建 relay
func NewRelay(registry *Registry, opts ...RelayOption) *Relay {
	r := &Relay{registry: registry}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Deliver 向用户当前连接推送事件
func (r *Relay) Deliver(userID uint, event string, payload interface{}) {
	if r.mirror != nil {
		r.mirror.Publish(userID, event, payload)
	}

	conn, ok := r.registry.Lookup(userID)
	if !ok {
		return
	}
	_ = conn.Emit(event, payload)
}

// IsOnline 透传在线状态，供联系人列表使用
func (r *Relay) IsOnline(userID uint) bool {
	return r.registry.IsOnline(userID)
}

// OnlineStats 按角色统计在线人数
func (r *Relay) OnlineStats() map[models.Role]int {
	stats := map[models.Role]int{}
	for _, id := range r.registry.OnlineUsers() {
		if role, ok := r.registry.RoleOf(id); ok {
			stats[role]++
		}
	}
	return stats
}
