package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_TYPE", "LOCAL")

	cfg := LoadConfig()

	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "3000", cfg.ServerPort)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "carewell_sid", cfg.SessionCookieName)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MQTTEnabled)
}

func TestLoadConfig_PrefixedOverrides(t *testing.T) {
	t.Setenv("ENV_TYPE", "server")
	t.Setenv("SERVER_DB_DRIVER", "mysql")
	t.Setenv("SERVER_DB_HOST", "db.internal")
	t.Setenv("SERVER_DB_USER", "care")
	t.Setenv("SERVER_DB_PASSWORD", "pw")
	t.Setenv("SERVER_DB_NAME", "carewell")
	t.Setenv("SERVER_SERVER_PORT", "8088")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("MQTT_ENABLED", "true")

	cfg := LoadConfig()

	assert.Equal(t, "SERVER", cfg.EnvType)
	assert.Equal(t, "8088", cfg.ServerPort)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.MQTTEnabled)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "care:pw@tcp(db.internal:3306)/carewell?charset=utf8mb4&parseTime=True&loc=Local", cfg.GetDSN())
}

func TestLoadConfig_UnknownEnvTypeFallsBackToLocal(t *testing.T) {
	t.Setenv("ENV_TYPE", "staging")
	t.Setenv("LOCAL_DB_PATH", "/tmp/care.db")

	cfg := LoadConfig()

	assert.Equal(t, "LOCAL", cfg.EnvType)
	assert.Equal(t, "/tmp/care.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", cfg.GetDSN())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CW_INT", "42")
	t.Setenv("CW_BAD_INT", "x")
	t.Setenv("CW_BOOL", "1")

	assert.Equal(t, 42, getEnvAsInt("CW_INT", 0))
	assert.Equal(t, 7, getEnvAsInt("CW_BAD_INT", 7))
	assert.True(t, getEnvAsBool("CW_BOOL", false))
	assert.Equal(t, "fallback", getEnv("CW_MISSING", "fallback"))
}
