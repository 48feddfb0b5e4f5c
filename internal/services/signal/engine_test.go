package signal

import (
	"math"
	"strings"
	"testing"
	"time"

	"FXPulse/internal/domain/models"
	"FXPulse/internal/services/features"
)

const eps = 1e-9

func kpi(ma7, ma30, std float64, level models.VolatilityLevel) *models.KPIMetrics {
	return &models.KPIMetrics{
		PairID:          "USD_JPY",
		AsOf:            time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC),
		CurrentRate:     ma7,
		MA7:             ma7,
		MA30:            ma30,
		StdDev14:        std,
		VolatilityLevel: level,
	}
}

func TestClassifyNilKPI(t *testing.T) {
	if got := NewEngine(DefaultPolicy()).Classify(nil, 0.7); got != nil {
		t.Fatalf("got %+v want nil", got)
	}
}

func TestClassifyJumpScenario(t *testing.T) {
	k := kpi(7.1/7, 30.1/30, 0.1*math.Sqrt(12)/13, models.VolatilityHigh)
	s := NewEngine(DefaultPolicy()).Classify(k, 0.5)
	if s.TrendScore != 1 || s.VolatilityPenalty != 1 {
		t.Fatalf("trend=%v penalty=%v want 1/1", s.TrendScore, s.VolatilityPenalty)
	}
	if math.Abs(s.FinalScore-0.6) > eps {
		t.Fatalf("final=%v want 0.6", s.FinalScore)
	}
	if s.Recommendation != models.RecommendLong {
		t.Fatalf("recommendation=%s want long", s.Recommendation)
	}
	// 75 agree, -10 volatile, +6 magnitude
	if s.Confidence != 71 {
		t.Fatalf("confidence=%d want 71", s.Confidence)
	}
	if s.PairID != "USD_JPY" || !s.Date.Equal(k.AsOf) {
		t.Fatalf("pair=%s date=%v", s.PairID, s.Date)
	}
}

func TestClassifyEmptyNews(t *testing.T) {
	e := NewEngine(DefaultPolicy())
	cases := []struct {
		k         *models.KPIMetrics
		wantFinal float64
	}{
		{kpi(1.2, 1.1, 0.001, models.VolatilityLow), 0.6},
		{kpi(1.0, 1.1, 0.001, models.VolatilityLow), -0.6},
		{kpi(1.2, 1.1, 0.02, models.VolatilityHigh), 0.4},
		{kpi(1.0, 1.1, 0.02, models.VolatilityHigh), -0.8},
	}
	for _, c := range cases {
		s := e.Classify(c.k, 0)
		if s.NewsScore != 0 {
			t.Fatalf("newsScore=%v want 0", s.NewsScore)
		}
		if math.Abs(s.FinalScore-c.wantFinal) > eps {
			t.Fatalf("final=%v want %v", s.FinalScore, c.wantFinal)
		}
	}
}

func TestTrendScoreEqualMAsIsDown(t *testing.T) {
	if got := TrendScore(kpi(1.1, 1.1, 0, models.VolatilityLow)); got != -1 {
		t.Fatalf("got %v want -1", got)
	}
}

func TestClassifyFlatSeriesIsDownTrend(t *testing.T) {
	kpis := features.NewKPIEngine(features.DefaultVolatilityThresholds())
	eng := NewEngine(DefaultPolicy())
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range []float64{0.7, 1.1, 151.237, 1337.13} {
		pts := make([]models.RatePoint, 30)
		for i := range pts {
			pts[i] = models.RatePoint{Date: start.AddDate(0, 0, i), Rate: r}
		}
		k := kpis.Compute(models.RateSeries{PairID: "EUR_USD", Points: pts})
		s := eng.Classify(k, 0)
		if s.TrendScore != -1 {
			t.Fatalf("r=%v: trend=%v want -1 (ma7=%v ma30=%v)", r, s.TrendScore, k.MA7, k.MA30)
		}
		if math.Abs(s.FinalScore+0.6) > eps || s.Recommendation != models.RecommendShort {
			t.Fatalf("r=%v: final=%v rec=%s want -0.6 short", r, s.FinalScore, s.Recommendation)
		}
	}
}

func TestRecommendStrictBoundaries(t *testing.T) {
	e := NewEngine(DefaultPolicy())
	cases := []struct {
		final float64
		want  models.Recommendation
	}{
		{0.2, models.RecommendNeutral},
		{-0.2, models.RecommendNeutral},
		{0, models.RecommendNeutral},
		{0.2000001, models.RecommendLong},
		{-0.2000001, models.RecommendShort},
		{1.0, models.RecommendLong},
		{-1.2, models.RecommendShort},
	}
	for _, c := range cases {
		if got := e.Recommend(c.final); got != c.want {
			t.Fatalf("Recommend(%v)=%s want=%s", c.final, got, c.want)
		}
	}
}

func TestFinalScoreMonotoneInNews(t *testing.T) {
	e := NewEngine(DefaultPolicy())
	for _, trend := range []float64{-1, 1} {
		for _, pen := range []float64{0, 1} {
			prev := math.Inf(-1)
			for news := -1.0; news <= 1.0; news += 0.05 {
				f := e.FinalScore(trend, news, pen)
				if f < prev {
					t.Fatalf("trend=%v pen=%v news=%v: %v < %v", trend, pen, news, f, prev)
				}
				prev = f
			}
		}
	}
}

func TestConfidenceDecomposition(t *testing.T) {
	e := NewEngine(DefaultPolicy())
	cases := []struct {
		name                    string
		trend, news, pen, final float64
		want                    int
	}{
		{"agree calm", 1, 0.5, 0, 0.8, 75 + 5 + 8},
		{"agree calm negative", -1, -0.5, 0, -0.8, 75 + 5 + 8},
		{"agree volatile", 1, 0.5, 1, 0.6, 75 - 10 + 6},
		{"disagree calm", 1, -0.5, 0, 0.4, 55 + 5 + 4},
		{"disagree volatile", -1, 0.5, 1, -0.6, 55 - 10 + 6},
		{"zero news disagrees", 1, 0, 0, 0.6, 55 + 5 + 6},
	}
	for _, c := range cases {
		if got := e.Confidence(c.trend, c.news, c.pen, c.final); got != c.want {
			t.Fatalf("%s: confidence=%d want=%d", c.name, got, c.want)
		}
	}
}

func TestConfidenceClamped(t *testing.T) {
	p := DefaultPolicy()
	p.MagnitudeScale = 100
	e := NewEngine(p)
	if got := e.Confidence(1, 1, 0, 1.0); got != 95 {
		t.Fatalf("upper clamp: got %d want 95", got)
	}
	p = DefaultPolicy()
	p.DisagreeBase = 10
	e = NewEngine(p)
	if got := e.Confidence(1, -1, 1, 0.2); got != 30 {
		t.Fatalf("lower clamp: got %d want 30", got)
	}
}

func TestConfidenceRange(t *testing.T) {
	e := NewEngine(DefaultPolicy())
	for _, trend := range []float64{-1, 1} {
		for _, pen := range []float64{0, 1} {
			for news := -1.0; news <= 1.0; news += 0.1 {
				c := e.Confidence(trend, news, pen, e.FinalScore(trend, news, pen))
				if c < 30 || c > 95 {
					t.Fatalf("confidence %d out of range", c)
				}
			}
		}
	}
}

func TestClassifyIdempotent(t *testing.T) {
	e := NewEngine(DefaultPolicy())
	k := kpi(150.2, 149.8, 0.007, models.VolatilityMedium)
	a, b := e.Classify(k, -0.3), e.Classify(k, -0.3)
	if a.FinalScore != b.FinalScore || a.Confidence != b.Confidence || a.Recommendation != b.Recommendation {
		t.Fatalf("outputs differ: %+v vs %+v", a, b)
	}
	if strings.Join(a.Rationale, "|") != strings.Join(b.Rationale, "|") {
		t.Fatalf("rationale differs")
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
	p := DefaultPolicy()
	p.LongThreshold, p.ShortThreshold = -0.2, 0.2
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for inverted thresholds")
	}
	p = DefaultPolicy()
	p.NewsWeight = -0.4
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for negative weight")
	}
}
