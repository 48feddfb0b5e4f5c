package scheduler

import (
	"context"
	"fmt"
	"time"

	applogger "FXPulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Job is a scheduled unit of work. A returned error is logged; the schedule continues.
type Job func(ctx context.Context) error

// Runner runs jobs on six-field cron specs (seconds first). A job still
// running when its next tick arrives skips that tick.
type Runner struct {
	cron    *cron.Cron
	l       *applogger.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
}

func New(l *applogger.Logger) *Runner {
	if l == nil {
		l = applogger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{l: l}
	return &Runner{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		l:       l,
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Add registers job under name on spec.
func (r *Runner) Add(name, spec string, job Job) (cron.EntryID, error) {
	id, err := r.cron.AddFunc(spec, func() { r.run(name, job) })
	if err != nil {
		return 0, fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return id, nil
}

func (r *Runner) run(name string, job Job) {
	start := time.Now()
	if err := job(r.baseCtx); err != nil {
		r.l.Error("scheduled job failed",
			applogger.String("job", name),
			applogger.Duration("duration_ms", time.Since(start)),
			applogger.Error(err),
		)
		return
	}
	r.l.Debug("scheduled job done",
		applogger.String("job", name),
		applogger.Duration("duration_ms", time.Since(start)),
	)
}

func (r *Runner) Len() int { return len(r.cron.Entries()) }

func (r *Runner) Start() {
	r.l.Info("scheduler started", applogger.Int("jobs", r.Len()))
	r.cron.Start()
}

// Stop cancels the jobs' context and waits for running jobs until ctx expires.
func (r *Runner) Stop(ctx context.Context) error {
	r.cancel()
	done := r.cron.Stop()
	select {
	case <-done.Done():
		r.l.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// cronLogger adapts the zerolog wrapper to cron.Logger.
type cronLogger struct {
	l *applogger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(kvFields(keysAndValues), applogger.Error(err))...)
}

func kvFields(kv []interface{}) []applogger.Field {
	out := make([]applogger.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, applogger.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}
