package di

import (
	"errors"
	"testing"

	"FXPulse/pkg/config"
	applogger "FXPulse/pkg/logger"
)

func TestProvideCache_MemoryHasCleanup(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Backend = "memory"
	c, cleanup, err := ProvideCache(cfg, applogger.Nop())
	if err != nil || c == nil {
		t.Fatalf("ProvideCache() = %v, %v", c, err)
	}
	if cleanup == nil {
		t.Fatalf("cleanup is nil")
	}
	cleanup()
}

func TestProvideCache_PingFailureClosesClient(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"
	c, cleanup, err := ProvideCache(cfg, applogger.Nop())
	if err == nil {
		t.Fatalf("expected ping error")
	}
	if c != nil || cleanup != nil {
		t.Fatalf("failed provider returned cache=%v cleanup set=%v", c, cleanup != nil)
	}
}

func TestProvideKafkaProducer_Cleanup(t *testing.T) {
	cfg := &config.Config{Environment: "test"}
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	p, cleanup, err := ProvideKafkaProducer(cfg, applogger.Nop())
	if err != nil || p == nil || cleanup == nil {
		t.Fatalf("ProvideKafkaProducer() = %v, %v", p, err)
	}
	cleanup()

	cfg.Kafka.Brokers = nil
	if _, cleanup, err := ProvideKafkaProducer(cfg, applogger.Nop()); err == nil || cleanup != nil {
		t.Fatalf("no brokers: err=%v cleanup set=%v", err, cleanup != nil)
	}
}

func TestCloseWith_CallsCloseOnce(t *testing.T) {
	calls := 0
	cleanup := closeWith(applogger.Nop(), "test", func() error {
		calls++
		return errors.New("boom")
	})
	cleanup()
	if calls != 1 {
		t.Fatalf("close calls = %d, want 1", calls)
	}
}
