// Package config provides runtime configuration for the storefront service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the startup knobs. The shop API origin and the CDN origin
// are the only required pieces of environment; everything else has a
// sensible default, and empty REDIS_ADDR / ORDER_LOG_PATH disable the
// respective optional subsystem.
type Config struct {
	HTTPAddr        string
	ShopAPIOrigin   string
	CDNOrigin       string
	RedisAddr       string
	OrderLogPath    string
	CatalogCacheTTL time.Duration
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShopAPIOrigin:   getenv("SHOP_API_ORIGIN", "http://localhost:9000"),
		CDNOrigin:       getenv("CDN_ORIGIN", "http://localhost:9000/content"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		OrderLogPath:    getenv("ORDER_LOG_PATH", ""),
		CatalogCacheTTL: durenvs("CATALOG_CACHE_TTL", 60),
		SessionTTL:      durenvs("SESSION_TTL", 1800),
		SweepInterval:   durenvs("SESSION_SWEEP_INTERVAL", 60),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),
	}
}
