package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:9000", cfg.ShopAPIOrigin)
	assert.Equal(t, "http://localhost:9000/content", cfg.CDNOrigin)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.OrderLogPath)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("SHOP_API_ORIGIN", "http://shop:4000")
	t.Setenv("CDN_ORIGIN", "http://cdn:4000/content")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("ORDER_LOG_PATH", "/tmp/orders.db")
	t.Setenv("SESSION_TTL", "120")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "http://shop:4000", cfg.ShopAPIOrigin)
	assert.Equal(t, "http://cdn:4000/content", cfg.CDNOrigin)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "/tmp/orders.db", cfg.OrderLogPath)
	assert.Equal(t, 2*time.Minute, cfg.SessionTTL)
}

func TestDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-number")

	cfg := Load()
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}
