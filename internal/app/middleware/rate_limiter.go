package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/error/response"
)

// TokenBucket 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// NewTokenBucket 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// Allow 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.lastRefill = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > float64(tb.capacity) {
		tb.tokens = float64(tb.capacity)
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

type limiterEntry struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// limiterStore 每个中间件实例一份，按键保存令牌桶
type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	expiry    time.Duration
	lastSweep time.Time
}

func newLimiterStore(expiry time.Duration) *limiterStore {
	return &limiterStore{limiters: make(map[string]*limiterEntry), expiry: expiry, lastSweep: time.Now()}
}

func (s *limiterStore) get(key string, rate float64, burst int) *TokenBucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	// 顺带清理长时间未访问的限流器
	if s.expiry > 0 && now.Sub(s.lastSweep) > s.expiry {
		for k, e := range s.limiters {
			if now.Sub(e.lastSeen) > s.expiry {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.limiters[key]
	if !ok {
		e = &limiterEntry{bucket: NewTokenBucket(rate, burst)}
		s.limiters[key] = e
	}
	e.lastSeen = now
	return e.bucket
}

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate       float64       // 每秒允许的请求数
	Burst      int           // 允许的突发请求数
	ExpiryTime time.Duration // 限流器闲置多久后回收
	LimitType  string        // 限流类型: "ip" 或 "combined"（IP+路径）
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       1,
	Burst:      5,
	ExpiryTime: 1 * time.Hour,
	LimitType:  "ip",
}

// RateLimiter 创建限流中间件，超限返回 429 too_many_requests
func RateLimiter(config ...RateLimiterConfig) gin.HandlerFunc {
	var cfg RateLimiterConfig
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultRateLimiterConfig
	}

	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}
	if cfg.LimitType == "" {
		cfg.LimitType = DefaultRateLimiterConfig.LimitType
	}

	store := newLimiterStore(cfg.ExpiryTime)

	return func(c *gin.Context) {
		key := c.ClientIP()
		if cfg.LimitType == "combined" {
			key += ":" + c.Request.URL.Path
		}

		if !store.get(key, cfg.Rate, cfg.Burst).Allow() {
			response.Fail(c, code.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}

// IPRateLimiter 按IP限流
func IPRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "ip"})
}

// CombinedRateLimiter 按IP和路径组合限流
func CombinedRateLimiter(rate float64, burst int) gin.HandlerFunc {
	return RateLimiter(RateLimiterConfig{Rate: rate, Burst: burst, LimitType: "combined"})
}
