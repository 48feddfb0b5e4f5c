package api

import (
	"context"
	"sync"

	"FXPulse/internal/domain/models"
)

type fakeDashboards struct {
	mu      sync.Mutex
	calls   int
	err     error
	compErr error
}

func (f *fakeDashboards) Build(ctx context.Context, pairID, rng string) (*models.Dashboard, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	pair, _ := models.FindPair(pairID)
	return &models.Dashboard{
		Pair:   pair,
		Range:  rng,
		Points: []models.RatePoint{},
		Signal: &models.TradingSignal{PairID: pair.ID, Recommendation: models.RecommendNeutral, Confidence: 55},
	}, nil
}

func (f *fakeDashboards) Compute(ctx context.Context, req models.ComputeSignalRequest) (*models.Dashboard, error) {
	if f.compErr != nil {
		return nil, f.compErr
	}
	pair, _ := models.FindPair(req.Pair)
	return &models.Dashboard{Pair: pair, Points: []models.RatePoint{}}, nil
}

func (f *fakeDashboards) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeComments struct {
	err error
}

func (f *fakeComments) Comment(ctx context.Context, req models.CommentRequest) (*models.MarketComment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.MarketComment{PairID: req.Pair, Agent: models.ToneAgentID(req.Agent), Trend: "neutral", Comment: "Quiet day."}, nil
}

type fakeHealth struct{ err error }

func (f fakeHealth) Health(ctx context.Context) error { return f.err }
