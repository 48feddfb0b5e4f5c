package signal

import (
	"math"

	"FXPulse/internal/domain/models"
)

// Engine classifies KPI and sentiment inputs into a TradingSignal.
// It is a pure function of its inputs and safe for concurrent use.
type Engine struct {
	policy Policy
}

func NewEngine(p Policy) *Engine {
	return &Engine{policy: p}
}

// Policy returns the engine's scoring policy.
func (e *Engine) Policy() Policy { return e.policy }

// Classify returns nil when kpi is nil; an unavailable signal is never reported as neutral.
func (e *Engine) Classify(kpi *models.KPIMetrics, newsScore float64) *models.TradingSignal {
	if kpi == nil {
		return nil
	}

	trend := TrendScore(kpi)
	penalty := 0.0
	if kpi.VolatilityLevel == models.VolatilityHigh {
		penalty = 1
	}
	final := e.FinalScore(trend, newsScore, penalty)

	return &models.TradingSignal{
		PairID:            kpi.PairID,
		Date:              kpi.AsOf,
		TrendScore:        trend,
		NewsScore:         newsScore,
		VolatilityPenalty: penalty,
		FinalScore:        final,
		Recommendation:    e.Recommend(final),
		Confidence:        e.Confidence(trend, newsScore, penalty, final),
		Rationale:         Rationale(kpi, newsScore),
	}
}

// TrendScore is +1 when the short MA is above the long MA, else -1.
func TrendScore(kpi *models.KPIMetrics) float64 {
	if kpi.MA7 > kpi.MA30 {
		return 1
	}
	return -1
}

// FinalScore is the weighted linear combination of the three inputs.
func (e *Engine) FinalScore(trend, news, penalty float64) float64 {
	p := e.policy
	return p.TrendWeight*trend + p.NewsWeight*news - p.VolatilityWeight*penalty
}

// Recommend is a step function with strict breakpoints at the thresholds.
func (e *Engine) Recommend(final float64) models.Recommendation {
	switch {
	case final > e.policy.LongThreshold:
		return models.RecommendLong
	case final < e.policy.ShortThreshold:
		return models.RecommendShort
	default:
		return models.RecommendNeutral
	}
}

// Confidence starts from the agreement base, adjusts for volatility and
// score magnitude, then clamps and rounds. A zero news score has no sign
// and therefore does not agree with the trend.
func (e *Engine) Confidence(trend, news, penalty, final float64) int {
	p := e.policy
	c := p.DisagreeBase
	if trend*news > 0 {
		c = p.AgreeBase
	}
	if penalty > 0 {
		c += p.VolatilityAdjust
	} else {
		c += p.CalmAdjust
	}
	c += math.Abs(final) * p.MagnitudeScale
	c = math.Max(p.MinConfidence, math.Min(p.MaxConfidence, c))
	return int(math.Round(c))
}
