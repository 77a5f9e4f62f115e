package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// Session 会话记录
type Session struct {
	UserID    uint        `json:"userId"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// SessionStore 会话存储后端
type SessionStore interface {
	Save(ctx context.Context, id string, session *Session, ttl time.Duration) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// InterfaceSessionService 会话管理
type InterfaceSessionService interface {
	Create(ctx context.Context, user *models.User) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Destroy(ctx context.Context, id string) error
	TTL() time.Duration
}

// SessionService 不透明会话ID -> 会话记录
type SessionService struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessionService 创建会话服务
func NewSessionService(store SessionStore, ttl time.Duration) InterfaceSessionService {
	return &SessionService{store: store, ttl: ttl}
}

// 1 Create 为用户创建新会话
func (s *SessionService) Create(ctx context.Context, user *models.User) (string, error) {
	id := uuid.New().String()
	session := &Session{UserID: user.ID, Role: user.Role, CreatedAt: time.Now()}
	if err := s.store.Save(ctx, id, session, s.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// 2 Get 读取会话
func (s *SessionService) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	return s.store.Load(ctx, id)
}

// 3 Destroy 删除会话，不存在时不报错
func (s *SessionService) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.store.Delete(ctx, id)
}

// TTL 会话有效期
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// RedisSessionStore 会话存放在 Redis 的 session:<id> 键
type RedisSessionStore struct {
	redis InterfaceRedisService
}

// NewRedisSessionStore 创建 Redis 会话存储
func NewRedisSessionStore(r InterfaceRedisService) *RedisSessionStore {
	return &RedisSessionStore{redis: r}
}

func (s *RedisSessionStore) Save(ctx context.Context, id string, session *Session, ttl time.Duration) error {
	return s.redis.Set(ctx, sessionKeyPrefix+id, session, ttl)
}

func (s *RedisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	var session Session
	if err := s.redis.Get(ctx, sessionKeyPrefix+id, &session); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.redis.Delete(ctx, sessionKeyPrefix+id)
}

type memorySession struct {
	session   Session
	expiresAt time.Time
}

// memorySweepInterval 过期会话的清理间隔
const memorySweepInterval = 10 * time.Minute

// MemorySessionStore 进程内会话存储，重启后全部失效
type MemorySessionStore struct {
	mu        sync.Mutex
	sessions  map[string]memorySession
	now       Clock
	lastSweep time.Time
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession), now: time.Now, lastSweep: time.Now()}
}

// sweep 顺带清理所有已过期会话，调用方持有锁
func (s *MemorySessionStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < memorySweepInterval {
		return
	}
	for id, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

// Len 当前保存的会话数（含尚未清理的过期会话）
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemorySessionStore) Save(_ context.Context, id string, session *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.sessions[id] = memorySession{session: *session, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Load(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	session := entry.session
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
