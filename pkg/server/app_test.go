package server

import (
	"context"
	"testing"
	"time"

	"FXPulse/internal/service/cache"
	"FXPulse/internal/service/ratelimit"
	"FXPulse/internal/usecase"
	"FXPulse/pkg/config"
	xhttp "FXPulse/pkg/http"
	applogger "FXPulse/pkg/logger"
	"FXPulse/pkg/scheduler"
)

func TestApp_RunContextStopsCleanly(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Refresher.Enabled = false

	l := applogger.Nop()
	srv := xhttp.NewServer(nil, xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	sched := scheduler.New(l)
	app := New(cfg, l, srv, nil, nil, sched, nil, ratelimit.New(5, 1), cache.NewTTLCache())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := app.RunContext(ctx); err != nil {
		t.Fatalf("RunContext() error = %v", err)
	}
	// limiter and cache sweeps
	if sched.Len() != 2 {
		t.Fatalf("scheduled jobs = %d, want 2", sched.Len())
	}
}

func TestApp_RejectsBadRefresherSpec(t *testing.T) {
	cfg := &config.Config{}
	cfg.Refresher.Enabled = true
	cfg.Refresher.Spec = "*/5 * * * *"

	l := applogger.Nop()
	refresher := usecase.NewSignalRefresher(nil, nil, nil, "1M", nil, l)
	app := New(cfg, l, xhttp.NewServer(nil), nil, nil, scheduler.New(l), refresher, nil, nil)
	if err := app.schedule(); err == nil {
		t.Fatalf("five-field spec should be rejected")
	}
}
