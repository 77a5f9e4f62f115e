package realtime

import (
	"sort"
	"sync"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
)

// Conn 一个已建立的实时连接。Emit 不得阻塞：发送缓冲满时直接丢弃并返回错误
type Conn interface {
	Emit(event string, payload interface{}) error
	Close() error
}

type entry struct {
	conn Conn
	role models.Role
}

// Registry 在线表：用户ID -> 当前连接。同一用户后连接的覆盖先前的连接
type Registry struct {
	mu      sync.RWMutex
	entries map[uint]entry
}

// NewRegistry 创建空的在线表，进程重启后所有人都是离线状态
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uint]entry)}
}

// Register 登记连接并向所有在线连接广播上线
func (r *Registry) Register(userID uint, conn Conn, role models.Role) {
	r.mu.Lock()
	r.entries[userID] = entry{conn: conn, role: role}
	r.mu.Unlock()

	r.Broadcast(EventPresenceUpdate, PresenceUpdate{UserID: userID, Online: true})
}

// Unregister 移除用户的连接（不存在时什么都不做），移除后广播离线
func (r *Registry) Unregister(userID uint) {
	r.mu.Lock()
	_, ok := r.entries[userID]
	delete(r.entries, userID)
	r.mu.Unlock()

	if ok {
		r.Broadcast(EventPresenceUpdate, PresenceUpdate{UserID: userID, Online: false})
	}
}

// Release 仅当 conn 仍是该用户当前登记的连接时才移除。
// 重连后旧连接的关闭不会把新连接踢下线。
func (r *Registry) Release(userID uint, conn Conn) bool {
	r.mu.Lock()
	current, ok := r.entries[userID]
	if !ok || current.conn != conn {
		r.mu.Unlock()
		return false
	}
	delete(r.entries, userID)
	r.mu.Unlock()

	r.Broadcast(EventPresenceUpdate, PresenceUpdate{UserID: userID, Online: false})
	return true
}

// IsOnline 用户当前是否可达
func (r *Registry) IsOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[userID]
	return ok
}

// Lookup 查找用户当前连接
func (r *Registry) Lookup(userID uint) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[userID]
	return e.conn, ok
}

// RoleOf 返回在线用户握手时声明的角色
func (r *Registry) RoleOf(userID uint) (models.Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[userID]
	return e.role, ok
}

// OnlineUsers 当前在线用户ID（升序）
func (r *Registry) OnlineUsers() []uint {
	r.mu.RLock()
	ids := make([]uint, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Broadcast 向所有在线连接发送事件
func (r *Registry) Broadcast(event string, payload interface{}) {
	r.mu.RLock()
	conns := make([]Conn, 0, len(r.entries))
	for _, e := range r.entries {
		conns = append(conns, e.conn)
	}
	r.mu.RUnlock()

	for _, c := range conns {
		_ = c.Emit(event, payload)
	}
}
