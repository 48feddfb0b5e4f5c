package models

import "time"

// VolatilityLevel buckets the 14-observation return dispersion.
type VolatilityLevel string

const (
	VolatilityLow    VolatilityLevel = "low"
	VolatilityMedium VolatilityLevel = "medium"
	VolatilityHigh   VolatilityLevel = "high"
)

// KPIMetrics are derived from a RateSeries on every request and never stored.
// Percent fields are in percent units.
type KPIMetrics struct {
	PairID              string          `json:"pairId"`
	AsOf                time.Time       `json:"asOf"`
	CurrentRate         float64         `json:"currentRate"`
	DailyChange         float64         `json:"dailyChange"`
	DailyChangePercent  float64         `json:"dailyChangePercent"`
	WeeklyChange        float64         `json:"weeklyChange"`
	WeeklyChangePercent float64         `json:"weeklyChangePercent"`
	MA7                 float64         `json:"ma7"`
	MA30                float64         `json:"ma30"`
	StdDev14            float64         `json:"stdDev14"`
	VolatilityLevel     VolatilityLevel `json:"volatilityLevel"`
}
