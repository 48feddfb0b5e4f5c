package signal

import (
	"fmt"
	"math"

	"FXPulse/internal/domain/models"
)

const (
	sentimentLabelCutoff = 0.1
	strongSentiment      = 0.5
	moderateSentiment    = 0.2
)

// Rationale renders one sentence each for trend, sentiment and volatility.
func Rationale(kpi *models.KPIMetrics, newsScore float64) []string {
	return []string{
		trendSentence(kpi),
		sentimentSentence(newsScore),
		volatilitySentence(kpi),
	}
}

func trendSentence(kpi *models.KPIMetrics) string {
	gap := 0.0
	if kpi.MA30 != 0 {
		gap = (kpi.MA7 - kpi.MA30) / kpi.MA30 * 100
	}
	if kpi.MA7 > kpi.MA30 {
		return fmt.Sprintf("Uptrend: the 7-day MA (%s) is %.2f%% above the 30-day MA (%s).",
			formatRate(kpi.PairID, kpi.MA7), gap, formatRate(kpi.PairID, kpi.MA30))
	}
	return fmt.Sprintf("Downtrend: the 7-day MA (%s) is %.2f%% below the 30-day MA (%s).",
		formatRate(kpi.PairID, kpi.MA7), math.Abs(gap), formatRate(kpi.PairID, kpi.MA30))
}

// formatRate uses the pair's quote precision, four decimals for unknown pairs.
func formatRate(pairID string, v float64) string {
	if p, ok := models.FindPair(pairID); ok {
		return p.FormatRate(v)
	}
	return fmt.Sprintf("%.4f", v)
}

func sentimentSentence(score float64) string {
	label := "neutral"
	switch {
	case score > sentimentLabelCutoff:
		label = "bullish"
	case score < -sentimentLabelCutoff:
		label = "bearish"
	}
	strength := "weak"
	switch abs := math.Abs(score); {
	case abs >= strongSentiment:
		strength = "strong"
	case abs >= moderateSentiment:
		strength = "moderate"
	}
	return fmt.Sprintf("News sentiment is %s with %s conviction (average score %+.2f).", label, strength, score)
}

func volatilitySentence(kpi *models.KPIMetrics) string {
	advice := "standard position sizing is appropriate"
	switch kpi.VolatilityLevel {
	case models.VolatilityHigh:
		advice = "reduce position size"
	case models.VolatilityMedium:
		advice = "use moderate position sizing"
	}
	return fmt.Sprintf("Volatility is %s (14-day σ %.2f%%); %s.", kpi.VolatilityLevel, kpi.StdDev14*100, advice)
}
