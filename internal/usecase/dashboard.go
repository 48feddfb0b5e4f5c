package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"FXPulse/internal/domain/models"
	domrepo "FXPulse/internal/domain/repository"
	"FXPulse/internal/services/features"
	"FXPulse/internal/services/sentiment"
	"FXPulse/internal/services/signal"
	applogger "FXPulse/pkg/logger"
	xutil "FXPulse/pkg/util"
)

var (
	ErrUnknownPair      = errors.New("unknown currency pair")
	ErrRateSource       = errors.New("rate source unavailable")
	ErrInvalidSeries    = errors.New("invalid rate series")
	ErrInvalidSentiment = errors.New("invalid news sentiment")
)

// DashboardBuilder builds the dashboard for a pair and range.
type DashboardBuilder interface {
	Build(ctx context.Context, pairID, rng string) (*models.Dashboard, error)
}

// SentimentOptions selects how article scores are reduced to one news score.
type SentimentOptions struct {
	Mode     sentiment.Mode
	HalfLife time.Duration
}

// DashboardUseCase wires the rate and news sources to the KPI and signal
// engines.
type DashboardUseCase struct {
	rates     domrepo.RateSource
	news      domrepo.NewsSource
	kpi       *features.KPIEngine
	engine    *signal.Engine
	sentiment SentimentOptions
	metrics   domrepo.Metrics
	l         *applogger.Logger
	timeout   time.Duration
	now       func() time.Time
}

var _ DashboardBuilder = (*DashboardUseCase)(nil)

// SetTimeout bounds the store fan-out of one Build call.
func (uc *DashboardUseCase) SetTimeout(d time.Duration) {
	if d > 0 {
		uc.timeout = d
	}
}

func NewDashboardUseCase(
	rates domrepo.RateSource,
	news domrepo.NewsSource,
	kpi *features.KPIEngine,
	engine *signal.Engine,
	opts SentimentOptions,
	metrics domrepo.Metrics,
	l *applogger.Logger,
) *DashboardUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &DashboardUseCase{
		rates:     rates,
		news:      news,
		kpi:       kpi,
		engine:    engine,
		sentiment: opts,
		metrics:   metrics,
		l:         l,
		timeout:   10 * time.Second,
		now:       time.Now,
	}
}

// Build fetches rates and news concurrently and scores them. A news failure
// degrades to an empty news set recorded in Errors["news"]; a rate failure
// fails the call.
func (uc *DashboardUseCase) Build(ctx context.Context, pairID, rng string) (*models.Dashboard, error) {
	start := uc.now()
	defer func() { uc.metrics.RecordLatency("dashboard_build", time.Since(start).Seconds()) }()

	pair, ok := models.FindPair(pairID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPair, pairID)
	}
	tr := domrepo.NormalizeTimeRange(rng)
	from, to := tr.Bounds(start)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		series   models.RateSeries
		rateErr  error
		articles []models.NewsArticle
		newsErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		series, rateErr = uc.rates.GetSeries(ctx, pair, from, to)
	}()
	go func() {
		defer wg.Done()
		articles, newsErr = uc.news.GetArticles(ctx, pair.ID)
	}()
	wg.Wait()

	if rateErr != nil {
		uc.metrics.RecordError("rate_source")
		return nil, fmt.Errorf("%w: %w", ErrRateSource, rateErr)
	}
	series.PairID = pair.ID
	if err := series.Validate(); err != nil {
		uc.metrics.RecordError("rate_series")
		return nil, fmt.Errorf("%w: %w", ErrRateSource, err)
	}

	errs := map[string]string{}
	if newsErr != nil {
		uc.metrics.RecordError("news_source")
		errs["news"] = newsErr.Error()
		articles = nil
		if uc.l != nil {
			uc.l.Warn("news source failed, scoring without news",
				applogger.String("pair", pair.ID),
				applogger.Error(newsErr),
			)
		}
	}
	articles = validArticles(articles)

	d := uc.evaluate(pair, string(tr), series, articles)
	if len(errs) > 0 {
		d.Errors = errs
	}
	return d, nil
}

// Compute scores caller-supplied rates and news without touching any store.
func (uc *DashboardUseCase) Compute(ctx context.Context, req models.ComputeSignalRequest) (*models.Dashboard, error) {
	pair, ok := models.FindPair(req.Pair)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPair, req.Pair)
	}

	series := models.RateSeries{PairID: pair.ID, Points: make([]models.RatePoint, 0, len(req.Rates))}
	for i, r := range req.Rates {
		d, ok := xutil.ParseDate(r.Date)
		if !ok {
			return nil, fmt.Errorf("%w: point %d: bad date %q", ErrInvalidSeries, i, r.Date)
		}
		series.Points = append(series.Points, models.RatePoint{Date: d, Rate: r.Rate})
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeries, err)
	}

	articles := make([]models.NewsArticle, 0, len(req.News))
	for i, n := range req.News {
		a := models.NewsArticle{
			ID:          n.ID,
			PairID:      pair.ID,
			Title:       n.Title,
			Source:      n.Source,
			PublishedAt: xutil.ParseTimeDefault(n.PublishedAt, time.Time{}),
			URL:         n.URL,
			Sentiment:   models.SentimentLabel(n.Sentiment),
		}
		if n.SentimentScore == nil {
			return nil, fmt.Errorf("%w: article %d has no score", ErrInvalidSentiment, i)
		}
		a.SentimentScore = *n.SentimentScore
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSentiment, err)
		}
		articles = append(articles, a)
	}

	return uc.evaluate(pair, "", series, articles), nil
}

func (uc *DashboardUseCase) evaluate(pair models.CurrencyPair, rng string, series models.RateSeries, articles []models.NewsArticle) *models.Dashboard {
	now := uc.now()
	d := &models.Dashboard{
		Pair:         pair,
		Range:        rng,
		Points:       series.Points,
		ArticleCount: len(articles),
		GeneratedAt:  now.UTC(),
	}
	if d.Points == nil {
		d.Points = []models.RatePoint{}
	}

	agg := sentiment.New(uc.sentiment.Mode, uc.sentiment.HalfLife, now)
	d.NewsScore = agg.Aggregate(articles)

	d.KPI = uc.kpi.Compute(series)
	if d.KPI == nil {
		d.InsufficientData = true
		uc.metrics.RecordInsufficientData(pair.ID)
		return d
	}
	d.Signal = uc.engine.Classify(d.KPI, d.NewsScore)
	uc.metrics.RecordSignal(pair.ID, d.Signal.Recommendation, d.Signal.Confidence)
	return d
}

// validArticles drops articles that fail validation; sources are expected
// to have rejected them already.
func validArticles(in []models.NewsArticle) []models.NewsArticle {
	out := in[:0:0]
	for _, a := range in {
		if a.Validate() == nil {
			out = append(out, a)
		}
	}
	return out
}
