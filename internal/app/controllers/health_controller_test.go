package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services"
	"github.com/kingnahee2-droid/CareWell/internal/domain/services/container"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
	"github.com/kingnahee2-droid/CareWell/internal/test/testutil"
)

func newHealthRouter(t *testing.T, redisService services.InterfaceRedisService) *gin.Engine {
	return newHealthRouterWithRealtime(t, redisService, testutil.NewRecordingRelay())
}

func newHealthRouterWithRealtime(t *testing.T, redisService services.InterfaceRedisService, rt container.Realtime) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SessionCookieName: "carewell_sid", SessionTTL: time.Hour}
	c := container.NewServiceContainer(testutil.NewDB(t), cfg, rt, redisService)

	r := gin.New()
	r.GET("/ping", HandleHealthFunc(c, "ping"))
	r.GET("/health", HandleHealthFunc(c, "status"))
	r.GET("/unknown", HandleHealthFunc(c, "nope"))
	return r
}

func getJSON(t *testing.T, r *gin.Engine, path string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealth_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := newHealthRouter(t, services.NewRedisServiceWithClient(client))

	status, body := getJSON(t, r, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	components := body["components"].(map[string]interface{})
	assert.Equal(t, "up", components["database"])
	assert.Equal(t, "up", components["redis"])
	assert.Contains(t, body, "cache")

	mr.Close()
	status, body = getJSON(t, r, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "down", body["components"].(map[string]interface{})["redis"])
}

func TestHealth_WithoutRedis(t *testing.T) {
	r := newHealthRouter(t, nil)

	status, body := getJSON(t, r, "/ping")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	_, body = getJSON(t, r, "/health")
	assert.NotContains(t, body["components"], "redis")

	status, body = getJSON(t, r, "/unknown")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["error"])
}

type idleConn struct{}

func (idleConn) Emit(string, interface{}) error { return nil }
func (idleConn) Close() error                   { return nil }

func TestHealth_ReportsPoolAndOnlineUsers(t *testing.T) {
	registry := realtime.NewRegistry()
	registry.Register(1, &idleConn{}, models.RoleElderly)
	registry.Register(2, &idleConn{}, models.RoleFamily)
	registry.Register(3, &idleConn{}, models.RoleFamily)
	r := newHealthRouterWithRealtime(t, nil, realtime.NewRelay(registry))

	status, body := getJSON(t, r, "/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"elderly": float64(1), "family": float64(2)}, body["online"])
	pool := body["pool"].(map[string]interface{})
	assert.Equal(t, float64(1), pool["max_open_connections"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SessionCookieName: "carewell_sid", SessionTTL: time.Hour}
	db := testutil.NewDB(t)
	c := container.NewServiceContainer(db, cfg, testutil.NewRecordingRelay(), nil)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	r := gin.New()
	r.GET("/health", HandleHealthFunc(c, "status"))
	status, body := getJSON(t, r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down", body["status"])
}
