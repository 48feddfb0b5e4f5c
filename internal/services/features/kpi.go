package features

import (
	talib "github.com/markcheno/go-talib"

	"FXPulse/internal/domain/models"
)

const (
	ShortMAWindow  = 7
	LongMAWindow   = 30
	VolWindow      = 14
	WeeklyLookback = 7
)

// VolatilityThresholds classify stdDev14: below Low is low, above High is high.
type VolatilityThresholds struct {
	Low  float64
	High float64
}

// DefaultVolatilityThresholds returns the 0.5% / 1.5% daily-return bands.
func DefaultVolatilityThresholds() VolatilityThresholds {
	return VolatilityThresholds{Low: 0.005, High: 0.015}
}

// Classify maps a return standard deviation to a level.
func (t VolatilityThresholds) Classify(std float64) models.VolatilityLevel {
	switch {
	case std < t.Low:
		return models.VolatilityLow
	case std > t.High:
		return models.VolatilityHigh
	default:
		return models.VolatilityMedium
	}
}

// KPIEngine derives KPIMetrics from a rate series. It holds no mutable state.
type KPIEngine struct {
	thresholds VolatilityThresholds
}

func NewKPIEngine(t VolatilityThresholds) *KPIEngine {
	return &KPIEngine{thresholds: t}
}

// Compute returns nil when the series has fewer than 2 points.
// The series must already be ascending and duplicate-free.
func (e *KPIEngine) Compute(series models.RateSeries) *models.KPIMetrics {
	pts := series.Points
	n := len(pts)
	if n < 2 {
		return nil
	}

	last := pts[n-1]
	prev := pts[n-2]
	weekRef := pts[0]
	if n >= WeeklyLookback+1 {
		weekRef = pts[n-1-WeeklyLookback]
	}

	std := StdDev(Closes(Trailing(pts, VolWindow)), VolWindow)

	return &models.KPIMetrics{
		PairID:              series.PairID,
		AsOf:                last.Date,
		CurrentRate:         last.Rate,
		DailyChange:         last.Rate - prev.Rate,
		DailyChangePercent:  percentChange(prev.Rate, last.Rate),
		WeeklyChange:        last.Rate - weekRef.Rate,
		WeeklyChangePercent: percentChange(weekRef.Rate, last.Rate),
		MA7:                 MovingAverage(pts, ShortMAWindow),
		MA30:                MovingAverage(pts, LongMAWindow),
		StdDev14:            std,
		VolatilityLevel:     e.thresholds.Classify(std),
	}
}

// MovingAverage is the simple average of the trailing min(window, len) rates.
// It averages deviations from the first rate in the window and adds that
// rate back, so a constant window yields exactly that constant.
func MovingAverage(points []models.RatePoint, window int) float64 {
	tail := Closes(Trailing(points, window))
	if len(tail) == 0 {
		return 0
	}
	base := tail[0]
	dev := make([]float64, len(tail))
	for i, r := range tail {
		dev[i] = r - base
	}
	sma := talib.Sma(dev, len(dev))
	return base + sma[len(sma)-1]
}

// StdDev is the population standard deviation of the fractional returns
// between consecutive rates. It is 0 when fewer than minPoints rates exist.
func StdDev(rates []float64, minPoints int) float64 {
	if len(rates) < minPoints || len(rates) < 2 {
		return 0
	}
	rets := ComputeFractionalReturns(rates)
	if len(rets) == 1 {
		return 0
	}
	sd := talib.StdDev(rets, len(rets), 1)
	return sd[len(sd)-1]
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}
