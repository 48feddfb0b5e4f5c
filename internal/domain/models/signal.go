package models

import "time"

// Recommendation is the classified direction of a signal.
type Recommendation string

const (
	RecommendLong    Recommendation = "long"
	RecommendShort   Recommendation = "short"
	RecommendNeutral Recommendation = "neutral"
)

// TradingSignal fuses trend, sentiment and volatility into a recommendation.
type TradingSignal struct {
	PairID            string         `json:"pairId"`
	Date              time.Time      `json:"date"`
	TrendScore        float64        `json:"trendScore"`        // +1 or -1
	NewsScore         float64        `json:"newsScore"`         // [-1, 1]
	VolatilityPenalty float64        `json:"volatilityPenalty"` // 0 or 1
	FinalScore        float64        `json:"finalScore"`
	Recommendation    Recommendation `json:"recommendation"`
	Confidence        int            `json:"confidence"` // [30, 95]
	Rationale         []string       `json:"rationale"`
}
