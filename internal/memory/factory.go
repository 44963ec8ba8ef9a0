package memory

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DurableConfig selects and configures the slow tier.
type DurableConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string
	BasePrefix    string
	MemoryPrefix  string
	TTL           time.Duration
}

// NewDurable creates the durable backend: redis when a redis address is set,
// postgres when a database URL is set, nil when the feature flag is off.
func NewDurable(ctx context.Context, cfg DurableConfig) (DurableStore, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.BasePrefix, cfg.MemoryPrefix, cfg.TTL), nil
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	}
	return nil, errors.New("durable store enabled but neither REDIS_ADDR nor DATABASE_URL is set")
}
