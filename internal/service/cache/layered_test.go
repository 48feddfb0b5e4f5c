package cache

import (
	"errors"
	"testing"
	"time"
)

type failingCache struct{ err error }

func (f failingCache) GetBytes(string) ([]byte, bool, error)        { return nil, false, f.err }
func (f failingCache) SetBytes(string, []byte, time.Duration) error { return f.err }

func TestLayeredCache_BackfillsL1(t *testing.T) {
	l2 := NewTTLCache()
	c := NewLayeredCache(l2, time.Second)

	_ = l2.SetBytes("k", []byte("shared"), time.Minute)
	b, ok, err := c.GetBytes("k")
	if err != nil || !ok || string(b) != "shared" {
		t.Fatalf("GetBytes() = %q, %v, %v", b, ok, err)
	}
	if c.l1.Len() != 1 {
		t.Fatalf("L2 hit should backfill L1")
	}
}

func TestLayeredCache_WriteThrough(t *testing.T) {
	l2 := NewTTLCache()
	c := NewLayeredCache(l2, time.Minute)

	if err := c.SetBytes("k", []byte("v"), 10*time.Second); err != nil {
		t.Fatalf("SetBytes() error = %v", err)
	}
	if _, ok, _ := l2.GetBytes("k"); !ok {
		t.Fatalf("value must reach L2")
	}
	if b, ok, _ := c.l1.GetBytes("k"); !ok || string(b) != "v" {
		t.Fatalf("value must be in L1")
	}
}

func TestLayeredCache_L2Failure(t *testing.T) {
	boom := errors.New("redis down")
	c := NewLayeredCache(failingCache{err: boom}, time.Second)

	if err := c.SetBytes("k", []byte("v"), time.Minute); !errors.Is(err, boom) {
		t.Fatalf("SetBytes() err = %v", err)
	}
	if c.l1.Len() != 0 {
		t.Fatalf("failed write-through must not populate L1")
	}
	if _, ok, err := c.GetBytes("k"); ok || !errors.Is(err, boom) {
		t.Fatalf("GetBytes() = %v, %v", ok, err)
	}
}
