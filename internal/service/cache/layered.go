package cache

import (
	"context"
	"io"
	"time"
)

// defaultL1TTL bounds how stale an L1 copy backfilled from L2 can get.
const defaultL1TTL = 5 * time.Second

// LayeredCache reads the in-process cache first and falls back to the
// shared one, so replicas share entries while hot keys stay local.
// Writes go through to L2 before L1.
type LayeredCache struct {
	l1    *TTLCache
	l2    BytesCache
	l1TTL time.Duration
}

func NewLayeredCache(l2 BytesCache, l1TTL time.Duration) *LayeredCache {
	if l1TTL <= 0 {
		l1TTL = defaultL1TTL
	}
	return &LayeredCache{l1: NewTTLCache(), l2: l2, l1TTL: l1TTL}
}

func (c *LayeredCache) GetBytes(key string) ([]byte, bool, error) {
	if b, ok, _ := c.l1.GetBytes(key); ok {
		return b, true, nil
	}
	b, ok, err := c.l2.GetBytes(key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.l1.SetBytes(key, b, c.l1TTL)
	return b, true, nil
}

func (c *LayeredCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	if err := c.l2.SetBytes(key, value, ttl); err != nil {
		return err
	}
	l1 := c.l1TTL
	if ttl > 0 && ttl < l1 {
		l1 = ttl
	}
	return c.l1.SetBytes(key, value, l1)
}

// Sweep drops expired L1 entries.
func (c *LayeredCache) Sweep() int { return c.l1.Sweep() }

// Ping checks the shared tier when it supports it.
func (c *LayeredCache) Ping(ctx context.Context) error {
	if p, ok := c.l2.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (c *LayeredCache) Close() error {
	if cl, ok := c.l2.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
