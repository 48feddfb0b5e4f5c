package cache

import (
	"context"
	"fmt"
	"time"

	"FXPulse/pkg/config"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

// Pinger is implemented by backends that live outside the process.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ Pinger = (*RedisCache)(nil)
	_ Pinger = (*LayeredCache)(nil)
)

// New selects the backend named by cache.backend.
func New(cfg *config.Config) (BytesCache, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return NewTTLCache(), nil
	case "redis":
		return newRedis(cfg), nil
	case "layered":
		return NewLayeredCache(newRedis(cfg), 0), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func newRedis(cfg *config.Config) *RedisCache {
	return NewRedisCache(RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
	})
}
