package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FXPulse/internal/service/cache"
	"FXPulse/internal/service/ratelimit"
	"FXPulse/internal/usecase"
	"FXPulse/pkg/config"
	xhttp "FXPulse/pkg/http"
	pkgkafka "FXPulse/pkg/kafka"
	applogger "FXPulse/pkg/logger"
	"FXPulse/pkg/scheduler"
)

const (
	limiterSweepSpec = "0 * * * * *"
	cacheSweepSpec   = "*/30 * * * * *"
	limiterIdle      = 10 * time.Minute
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	l           *applogger.Logger
	httpServer  *xhttp.Server
	consumer    *pkgkafka.Consumer
	newsHandler pkgkafka.MessageHandler
	sched       *scheduler.Runner
	refresher   *usecase.SignalRefresher
	limiter     *ratelimit.Limiter
	cache       cache.BytesCache
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	newsHandler *usecase.KafkaNewsHandler,
	sched *scheduler.Runner,
	refresher *usecase.SignalRefresher,
	limiter *ratelimit.Limiter,
	c cache.BytesCache,
) *App {
	a := &App{
		cfg:        cfg,
		l:          l,
		httpServer: httpServer,
		consumer:   consumer,
		sched:      sched,
		refresher:  refresher,
		limiter:    limiter,
		cache:      c,
	}
	if newsHandler != nil {
		a.newsHandler = newsHandler
	}
	return a
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts every component and shuts them down once ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.schedule(); err != nil {
		return err
	}

	if a.consumer != nil && a.newsHandler != nil {
		a.consumer.RegisterHandler(a.newsHandler)
		if err := a.consumer.Start(); err != nil {
			a.l.Error("kafka consumer start failed", applogger.Error(err))
			return err
		}
		a.l.Info("kafka consumer started", applogger.String("topic", a.newsHandler.Topic()))
	}

	a.sched.Start()

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return errors.Join(err, a.shutdown())
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) schedule() error {
	if a.cfg.Refresher.Enabled && a.refresher != nil {
		if _, err := a.sched.Add("signal_refresh", a.cfg.Refresher.Spec, a.refresher.Refresh); err != nil {
			return err
		}
		a.l.Info("signal refresher scheduled",
			applogger.String("spec", a.cfg.Refresher.Spec),
			applogger.Strings("pairs", a.cfg.Refresher.Pairs),
		)
	}
	if a.limiter != nil {
		if _, err := a.sched.Add("ratelimit_sweep", limiterSweepSpec, func(context.Context) error {
			if n := a.limiter.Forget(limiterIdle); n > 0 {
				a.l.Debug("rate limiter buckets dropped", applogger.Int("count", n))
			}
			return nil
		}); err != nil {
			return err
		}
	}
	if mem, ok := a.cache.(interface{ Sweep() int }); ok {
		if _, err := a.sched.Add("cache_sweep", cacheSweepSpec, func(context.Context) error {
			if n := mem.Sweep(); n > 0 {
				a.l.Debug("cache entries expired", applogger.Int("count", n))
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// shutdown stops every source of work. The clients those components use
// are closed afterwards by the cleanup InitializeApp returns.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	a.l.Info("shutting down...")

	var errs []error
	if err := a.sched.Stop(ctx); err != nil {
		a.l.Warn("scheduler stop error", applogger.Error(err))
		errs = append(errs, err)
	}
	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.l.Info("shutdown complete")
	return errors.Join(errs...)
}
