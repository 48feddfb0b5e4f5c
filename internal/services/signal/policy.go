package signal

import "fmt"

// Policy holds the tunable constants of the scoring formula and classifier.
type Policy struct {
	TrendWeight      float64
	NewsWeight       float64
	VolatilityWeight float64
	LongThreshold    float64
	ShortThreshold   float64

	AgreeBase        float64
	DisagreeBase     float64
	VolatilityAdjust float64 // applied when the penalty is set
	CalmAdjust       float64 // applied otherwise
	MagnitudeScale   float64
	MinConfidence    float64
	MaxConfidence    float64
}

// DefaultPolicy is Score = 0.6*Trend + 0.4*News - 0.2*Vol, long above 0.2, short below -0.2.
func DefaultPolicy() Policy {
	return Policy{
		TrendWeight:      0.6,
		NewsWeight:       0.4,
		VolatilityWeight: 0.2,
		LongThreshold:    0.2,
		ShortThreshold:   -0.2,
		AgreeBase:        75,
		DisagreeBase:     55,
		VolatilityAdjust: -10,
		CalmAdjust:       5,
		MagnitudeScale:   10,
		MinConfidence:    30,
		MaxConfidence:    95,
	}
}

// Validate rejects policies the classifier cannot honor.
func (p Policy) Validate() error {
	if p.TrendWeight < 0 || p.NewsWeight < 0 || p.VolatilityWeight < 0 {
		return fmt.Errorf("signal weights must be non-negative")
	}
	if p.LongThreshold <= p.ShortThreshold {
		return fmt.Errorf("long threshold %v must exceed short threshold %v", p.LongThreshold, p.ShortThreshold)
	}
	if p.MinConfidence > p.MaxConfidence {
		return fmt.Errorf("confidence bounds inverted: min %v > max %v", p.MinConfidence, p.MaxConfidence)
	}
	return nil
}
