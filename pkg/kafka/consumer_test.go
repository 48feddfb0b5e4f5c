package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type flakyHandler struct {
	failures int
	calls    int
	err      error
}

func (h *flakyHandler) Topic() string { return "fx.news" }

func (h *flakyHandler) Handle(ctx context.Context, data []byte) error {
	h.calls++
	if h.calls <= h.failures {
		return h.err
	}
	return nil
}

func TestHandleWithRetry(t *testing.T) {
	always := func(int) bool { return true }
	transient := errors.New("store busy")

	tests := []struct {
		name     string
		h        *flakyHandler
		retryMax int
		wait     func(int) bool
		attempts int
		wantErr  bool
	}{
		{"first try", &flakyHandler{}, 3, always, 1, false},
		{"recovers", &flakyHandler{failures: 2, err: transient}, 3, always, 3, false},
		{"exhausted", &flakyHandler{failures: 10, err: transient}, 2, always, 3, true},
		{"permanent", &flakyHandler{failures: 10, err: fmt.Errorf("bad json: %w", ErrPermanent)}, 5, always, 1, true},
		{"stopped", &flakyHandler{failures: 10, err: transient}, 5, func(int) bool { return false }, 1, true},
	}
	for _, tt := range tests {
		attempts, err := handleWithRetry(tt.h, nil, tt.retryMax, 0, tt.wait)
		if attempts != tt.attempts {
			t.Fatalf("%s: attempts = %d, want %d", tt.name, attempts, tt.attempts)
		}
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestBackoffWithJitter(t *testing.T) {
	min, max := 100*time.Millisecond, time.Second
	for attempt := 1; attempt <= 8; attempt++ {
		d := backoffWithJitter(min, max, attempt)
		if d <= 0 || d > max {
			t.Fatalf("attempt %d: backoff %v out of (0, %v]", attempt, d, max)
		}
	}
}

func TestNewConsumer_RequiresBrokers(t *testing.T) {
	if _, err := NewConsumer(); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

type deadlineHandler struct{ hadDeadline bool }

func (h *deadlineHandler) Topic() string { return "fx.news" }

func (h *deadlineHandler) Handle(ctx context.Context, _ []byte) error {
	_, h.hadDeadline = ctx.Deadline()
	return nil
}

func TestHandleOnce_AppliesTimeout(t *testing.T) {
	h := &deadlineHandler{}
	if err := handleOnce(h, nil, time.Second); err != nil || !h.hadDeadline {
		t.Fatalf("err = %v, deadline = %v", err, h.hadDeadline)
	}
	if err := handleOnce(h, nil, 0); err != nil || h.hadDeadline {
		t.Fatalf("unexpected deadline without timeout")
	}
}

func TestWorkerFor_StableAndInRange(t *testing.T) {
	for p := 0; p < 32; p++ {
		w := workerFor("fx.news", p, 4)
		if w < 0 || w >= 4 {
			t.Fatalf("partition %d: worker %d out of range", p, w)
		}
		if again := workerFor("fx.news", p, 4); again != w {
			t.Fatalf("partition %d: worker %d then %d", p, w, again)
		}
	}
	if w := workerFor("fx.news", 7, 1); w != 0 {
		t.Fatalf("single worker: got %d", w)
	}
}

func TestEnqueue_KeepsPartitionOrderOnOneQueue(t *testing.T) {
	c, err := NewConsumer(WithConsumerBrokers([]string{"localhost:9092"}), WithConsumerWorkers(4), WithConsumerBufferSize(16))
	if err != nil {
		t.Fatalf("NewConsumer() error = %v", err)
	}
	for off := int64(0); off < 10; off++ {
		m := &message{topic: "fx.news", km: kafka.Message{Partition: 3, Offset: off}}
		if !c.enqueue(m) {
			t.Fatalf("enqueue offset %d rejected", off)
		}
	}
	q := c.queues[workerFor("fx.news", 3, 4)]
	if len(q) != 10 {
		t.Fatalf("partition queue holds %d messages, want 10", len(q))
	}
	for want := int64(0); want < 10; want++ {
		if got := (<-q).km.Offset; got != want {
			t.Fatalf("offset %d dequeued, want %d", got, want)
		}
	}
}
