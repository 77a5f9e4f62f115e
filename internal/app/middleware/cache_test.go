package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
)

func withUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := &models.User{Name: "u", Role: models.RoleElderly}
		user.ID = id
		c.Set(ContextUser, user)
		c.Next()
	}
}

func newCachedRouter(userID uint, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/summary", withUser(userID), Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"n": *hits})
	})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCache_ServesSecondRequestFromCache(t *testing.T) {
	PurgeCache()
	hits := 0
	r := newCachedRouter(1, &hits)

	first := get(r, "/summary?b=2&a=1")
	second := get(r, "/summary?a=1&b=2")

	assert.Equal(t, 1, hits)
	assert.Empty(t, first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get("Content-Type"), "application/json")
}

func TestCache_KeyedPerUserAndPurgedPerUser(t *testing.T) {
	PurgeCache()
	hitsA, hitsB := 0, 0
	a := newCachedRouter(1, &hitsA)
	b := newCachedRouter(2, &hitsB)

	get(a, "/summary")
	get(b, "/summary")
	assert.Equal(t, 1, hitsA)
	assert.Equal(t, 1, hitsB)

	PurgeUserCache(1)
	get(a, "/summary")
	get(b, "/summary")
	assert.Equal(t, 2, hitsA)
	assert.Equal(t, 1, hitsB)
}

func TestCache_SkipsAnonymousAndErrors(t *testing.T) {
	PurgeCache()
	gin.SetMode(gin.TestMode)
	hits := 0
	r := gin.New()
	r.GET("/anon", Cache(CacheConfig{}), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{})
	})
	r.GET("/fail", withUser(3), Cache(CacheConfig{}), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusInternalServerError, gin.H{})
	})

	get(r, "/anon")
	get(r, "/anon")
	get(r, "/fail")
	get(r, "/fail")

	assert.Equal(t, 4, hits)
	assert.Equal(t, 0, CacheStats()["total_items"])
}

func TestUserKeyFunc(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/x?z=1&a=2", nil)
	assert.Equal(t, "", UserKeyFunc(c))

	user := &models.User{}
	user.ID = 9
	c.Set(ContextUser, user)
	assert.Equal(t, "u:9:/x?a=2&z=1&", UserKeyFunc(c))
}

func TestCache_SkipsStoreWhenPurgedDuringRequest(t *testing.T) {
	PurgeCache()
	gin.SetMode(gin.TestMode)
	hits := 0
	r := gin.New()
	r.GET("/summary", withUser(4), Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		hits++
		if hits == 1 {
			// 模拟该用户在汇总计算期间写入了新记录
			PurgeUserCache(4)
		}
		c.JSON(http.StatusOK, gin.H{"n": hits})
	})

	get(r, "/summary")
	second := get(r, "/summary")
	third := get(r, "/summary")

	assert.Equal(t, 2, hits)
	assert.Empty(t, second.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", third.Header().Get("X-Cache"))
}

func TestCache_PurgeOfOtherUserDoesNotBlockStore(t *testing.T) {
	PurgeCache()
	gin.SetMode(gin.TestMode)
	hits := 0
	r := gin.New()
	r.GET("/summary", withUser(5), Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		hits++
		PurgeUserCache(6)
		c.JSON(http.StatusOK, gin.H{"n": hits})
	})

	get(r, "/summary")
	assert.Equal(t, "HIT", get(r, "/summary").Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)
}

func TestUserPrefixOf(t *testing.T) {
	assert.Equal(t, "u:12:", userPrefixOf("u:12:/api/x?"))
	assert.Equal(t, "u:12:", userPrefixOf(UserCachePrefix(12)))
	assert.Equal(t, "", userPrefixOf("global:/x"))
	assert.Equal(t, "", userPrefixOf("u:12"))
}
