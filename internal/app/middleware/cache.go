package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// 缓存条目
type cacheEntry struct {
	Content     []byte
	ContentType string
	Expiration  time.Time
}

// 内存缓存。清除时递增代数，请求期间代数变化则不写入，避免旧结果覆盖清除
type memoryCache struct {
	sync.RWMutex
	items       map[string]cacheEntry
	generation  uint64            // 全量清除代数
	generations map[string]uint64 // 按用户前缀的清除代数
}

// 全局缓存实例
var cache = &memoryCache{
	items:       make(map[string]cacheEntry),
	generations: make(map[string]uint64),
}

// userPrefixOf 从 "u:<id>:..." 形式的键中取出用户前缀
func userPrefixOf(key string) string {
	if !strings.HasPrefix(key, "u:") {
		return ""
	}
	if i := strings.IndexByte(key[2:], ':'); i >= 0 {
		return key[:i+3]
	}
	return ""
}

// generationOf 调用方持有锁
func (m *memoryCache) generationOf(key string) uint64 {
	gen := m.generation
	if prefix := userPrefixOf(key); prefix != "" {
		gen += m.generations[prefix]
	}
	return gen
}

var janitorOnce sync.Once

// CacheConfig 缓存配置
type CacheConfig struct {
	Expiration time.Duration             // 缓存过期时间
	KeyFunc    func(*gin.Context) string // 缓存键，返回空串表示不缓存
}

// UserCachePrefix 用户缓存键前缀，写操作后按前缀清除
func UserCachePrefix(userID uint) string {
	return fmt.Sprintf("u:%d:", userID)
}

// UserKeyFunc 按当前用户 + 路径 + 排序后的查询参数生成缓存键
func UserKeyFunc(c *gin.Context) string {
	user := CurrentUser(c)
	if user == nil {
		return ""
	}

	query := c.Request.URL.Query()
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(UserCachePrefix(user.ID))
	sb.WriteString(c.Request.URL.Path)
	sb.WriteByte('?')
	for _, k := range keys {
		values := query[k]
		sort.Strings(values)
		for _, v := range values {
			sb.WriteString(k + "=" + v + "&")
		}
	}
	return sb.String()
}

// Cache 缓存 GET 请求的 200 响应
func Cache(cfg CacheConfig) gin.HandlerFunc {
	if cfg.Expiration <= 0 {
		cfg.Expiration = 30 * time.Second
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = UserKeyFunc
	}
	janitorOnce.Do(startJanitor)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cfg.KeyFunc(c)
		if key == "" {
			c.Next()
			return
		}

		cache.RLock()
		entry, found := cache.items[key]
		gen := cache.generationOf(key)
		cache.RUnlock()

		if found && entry.Expiration.After(time.Now()) {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, entry.ContentType, entry.Content)
			c.Abort()
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.Status() == http.StatusOK {
			cache.Lock()
			// 处理期间被清除过，结果可能已过时
			if cache.generationOf(key) == gen {
				cache.items[key] = cacheEntry{
					Content:     writer.body.Bytes(),
					ContentType: writer.Header().Get("Content-Type"),
					Expiration:  time.Now().Add(cfg.Expiration),
				}
			}
			cache.Unlock()
		}
	}
}

// PurgeCache 清除所有缓存
func PurgeCache() {
	cache.Lock()
	cache.items = make(map[string]cacheEntry)
	cache.generation++
	cache.Unlock()
}

// PurgeCacheByPrefix 根据前缀清除缓存
func PurgeCacheByPrefix(prefix string) {
	cache.Lock()
	defer cache.Unlock()

	if userPrefixOf(prefix) == prefix {
		cache.generations[prefix]++
	} else {
		cache.generation++
	}
	for key := range cache.items {
		if strings.HasPrefix(key, prefix) {
			delete(cache.items, key)
		}
	}
}

// PurgeUserCache 清除某个用户的所有缓存
func PurgeUserCache(userID uint) {
	PurgeCacheByPrefix(UserCachePrefix(userID))
}

// CacheStats 获取缓存统计信息
func CacheStats() map[string]interface{} {
	cache.RLock()
	defer cache.RUnlock()

	expired := 0
	now := time.Now()
	for _, entry := range cache.items {
		if entry.Expiration.Before(now) {
			expired++
		}
	}
	return map[string]interface{}{
		"total_items":   len(cache.items),
		"expired_items": expired,
	}
}

// 自定义响应写入器，用于捕获响应内容
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 同时写入原始响应和缓冲区
func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// WriteString 同时写入原始响应和缓冲区
func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// 定期清理过期缓存
func startJanitor() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			cleanExpiredCache()
		}
	}()
}

func cleanExpiredCache() {
	now := time.Now()

	cache.Lock()
	defer cache.Unlock()

	for key, entry := range cache.items {
		if entry.Expiration.Before(now) {
			delete(cache.items, key)
		}
	}
}
