package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FXPulse/internal/domain/models"
	domrepo "FXPulse/internal/domain/repository"
	applogger "FXPulse/pkg/logger"
)

// SignalRefresher recomputes the configured pairs and publishes their signals.
type SignalRefresher struct {
	dashboards DashboardBuilder
	pub        domrepo.SignalPublisher
	pairs      []string
	rng        string
	metrics    domrepo.Metrics
	l          *applogger.Logger
}

// NewSignalRefresher refreshes every supported pair when pairs is empty.
func NewSignalRefresher(
	dashboards DashboardBuilder,
	pub domrepo.SignalPublisher,
	pairs []string,
	rng string,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *SignalRefresher {
	if len(pairs) == 0 {
		for _, p := range models.CurrencyPairs {
			pairs = append(pairs, p.ID)
		}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &SignalRefresher{dashboards: dashboards, pub: pub, pairs: pairs, rng: rng, metrics: metrics, l: l}
}

// Refresh processes every pair; a failing pair does not stop the others.
// The returned error joins the per-pair failures.
func (r *SignalRefresher) Refresh(ctx context.Context) error {
	start := time.Now()
	var errs []error
	published := 0
	for _, id := range r.pairs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		ok, err := r.refreshPair(ctx, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			published++
		}
	}
	r.metrics.RecordLatency("signal_refresh", time.Since(start).Seconds())
	if r.l != nil {
		r.l.Info("signal refresh done",
			applogger.Int("pairs", len(r.pairs)),
			applogger.Int("published", published),
			applogger.Int("failed", len(errs)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return errors.Join(errs...)
}

func (r *SignalRefresher) refreshPair(ctx context.Context, pairID string) (bool, error) {
	d, err := r.dashboards.Build(ctx, pairID, r.rng)
	if err != nil {
		r.metrics.RecordError("refresh_build")
		r.logFailure("refresh build failed", pairID, err)
		return false, fmt.Errorf("%s: %w", pairID, err)
	}
	if d.Signal == nil {
		return false, nil
	}
	if err := r.pub.Publish(ctx, d.Signal); err != nil {
		r.metrics.RecordError("refresh_publish")
		r.logFailure("refresh publish failed", pairID, err)
		return false, fmt.Errorf("%s: %w", pairID, err)
	}
	if r.l != nil {
		r.l.Debug("signal published",
			applogger.String("pair", pairID),
			applogger.String("recommendation", string(d.Signal.Recommendation)),
			applogger.Float64("final", d.Signal.FinalScore),
			applogger.Int("confidence", d.Signal.Confidence),
		)
	}
	return true, nil
}

func (r *SignalRefresher) logFailure(msg, pairID string, err error) {
	if r.l != nil {
		r.l.Error(msg, applogger.String("pair", pairID), applogger.Error(err))
	}
}
