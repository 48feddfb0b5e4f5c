package metrics

import (
	"FXPulse/internal/domain/models"
	"FXPulse/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ repository.Metrics = (*Recorder)(nil)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signals          *prometheus.CounterVec
	confidence       *prometheus.GaugeVec
	insufficientData *prometheus.CounterVec
	newsIngested     *prometheus.CounterVec
	cacheResults     *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		signals: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_signals_total",
				Help: "Trading signals computed by pair and recommendation",
			},
			[]string{"pair", "recommendation"},
		),
		confidence: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxpulse_signal_confidence",
				Help: "Confidence of the latest signal for a pair",
			},
			[]string{"pair"},
		),
		insufficientData: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_insufficient_data_total",
				Help: "Computations skipped because the rate series was too short",
			},
			[]string{"pair"},
		),
		newsIngested: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_news_ingested_total",
				Help: "Scored news articles accepted from the news topic",
			},
			[]string{"pair"},
		),
		cacheResults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_cache_requests_total",
				Help: "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fxpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordSignal(pairID string, rec models.Recommendation, confidence int) {
	r.signals.WithLabelValues(pairID, string(rec)).Inc()
	r.confidence.WithLabelValues(pairID).Set(float64(confidence))
}

func (r *Recorder) RecordInsufficientData(pairID string) {
	r.insufficientData.WithLabelValues(pairID).Inc()
}

func (r *Recorder) RecordNewsIngested(pairID string) {
	r.newsIngested.WithLabelValues(pairID).Inc()
}

func (r *Recorder) RecordCacheResult(cache string, hit bool) {
	r.cacheResults.WithLabelValues(cache, hitLabel(hit)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
