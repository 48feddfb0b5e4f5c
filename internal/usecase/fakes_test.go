package usecase

import (
	"context"
	"sync"
	"time"

	"FXPulse/internal/domain/models"
	"FXPulse/internal/domain/service"
	"FXPulse/internal/services/features"
	"FXPulse/internal/services/sentiment"
	"FXPulse/internal/services/signal"
)

type fakeRates struct {
	series models.RateSeries
	err    error
	calls  int
}

func (f *fakeRates) GetSeries(ctx context.Context, pair models.CurrencyPair, from, to time.Time) (models.RateSeries, error) {
	f.calls++
	return f.series, f.err
}

func (f *fakeRates) Health(ctx context.Context) error { return f.err }

type fakeNews struct {
	articles []models.NewsArticle
	err      error
}

func (f *fakeNews) GetArticles(ctx context.Context, pairID string) ([]models.NewsArticle, error) {
	return f.articles, f.err
}

type fakeSink struct {
	added []models.NewsArticle
	err   error
}

func (f *fakeSink) AddArticle(ctx context.Context, a models.NewsArticle) error {
	if f.err != nil {
		return f.err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	f.added = append(f.added, a)
	return nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.TradingSignal
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, s *models.TradingSignal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, s)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type recordingMetrics struct {
	noopMetrics
	mu           sync.Mutex
	signals      map[string]models.Recommendation
	insufficient []string
	errors       []string
	ingested     int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{signals: map[string]models.Recommendation{}}
}

func (m *recordingMetrics) RecordSignal(pairID string, rec models.Recommendation, confidence int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals[pairID] = rec
}

func (m *recordingMetrics) RecordInsufficientData(pairID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insufficient = append(m.insufficient, pairID)
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, kind)
}

func (m *recordingMetrics) RecordNewsIngested(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested++
}

type fakeComments struct {
	prompts []service.CommentPrompt
	text    string
	cached  bool
	err     error
}

func (f *fakeComments) Generate(ctx context.Context, pairID string, p service.CommentPrompt) (string, bool, error) {
	f.prompts = append(f.prompts, p)
	return f.text, f.cached, f.err
}

type fakeBuilder struct {
	byPair map[string]*models.Dashboard
	err    map[string]error
}

func (f *fakeBuilder) Build(ctx context.Context, pairID, rng string) (*models.Dashboard, error) {
	if err := f.err[pairID]; err != nil {
		return nil, err
	}
	if d, ok := f.byPair[pairID]; ok {
		return d, nil
	}
	return &models.Dashboard{InsufficientData: true}, nil
}

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// jumpSeries is 29 days at 1.00 followed by one day at 1.10.
func jumpSeries(pairID string) models.RateSeries {
	s := models.RateSeries{PairID: pairID}
	for i := 0; i < 30; i++ {
		r := 1.0
		if i == 29 {
			r = 1.10
		}
		s.Points = append(s.Points, models.RatePoint{Date: day0.AddDate(0, 0, i), Rate: r})
	}
	return s
}

func scored(id string, score float64) models.NewsArticle {
	return models.NewsArticle{ID: id, PairID: "EUR_USD", PublishedAt: day0, SentimentScore: score}
}

func newDashboardUC(rates *fakeRates, news *fakeNews, m *recordingMetrics) *DashboardUseCase {
	return NewDashboardUseCase(
		rates, news,
		features.NewKPIEngine(features.DefaultVolatilityThresholds()),
		signal.NewEngine(signal.DefaultPolicy()),
		SentimentOptions{Mode: sentiment.ModeMean},
		m, nil,
	)
}
