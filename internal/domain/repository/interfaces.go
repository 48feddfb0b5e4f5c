package repository

import (
	"context"
	"time"

	"FXPulse/internal/domain/models"
)

// RateSource returns ascending daily rates for a pair within [from, to].
type RateSource interface {
	GetSeries(ctx context.Context, pair models.CurrencyPair, from, to time.Time) (models.RateSeries, error)
	Health(ctx context.Context) error
}

// NewsSource returns the scored articles currently known for a pair.
type NewsSource interface {
	GetArticles(ctx context.Context, pairID string) ([]models.NewsArticle, error)
}

// NewsSink accepts scored articles pushed by the news pipeline.
type NewsSink interface {
	AddArticle(ctx context.Context, a models.NewsArticle) error
}

// SignalPublisher notifies downstream consumers of freshly computed signals.
type SignalPublisher interface {
	Publish(ctx context.Context, s *models.TradingSignal) error
	Close() error
}

type Metrics interface {
	RecordSignal(pairID string, rec models.Recommendation, confidence int)
	RecordInsufficientData(pairID string)
	RecordNewsIngested(pairID string)
	RecordCacheResult(cache string, hit bool)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
