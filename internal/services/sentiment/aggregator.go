package sentiment

import (
	"math"
	"time"

	"FXPulse/internal/domain/models"
)

// Mode selects how article scores are combined.
type Mode string

const (
	ModeMean    Mode = "mean"
	ModeRecency Mode = "recency"
)

// Aggregator reduces scored articles to a single value in [-1, 1].
type Aggregator interface {
	Aggregate(articles []models.NewsArticle) float64
}

// Mean is the unweighted arithmetic mean of sentiment scores; 0 for no articles.
type Mean struct{}

func (Mean) Aggregate(articles []models.NewsArticle) float64 {
	if len(articles) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range articles {
		sum += a.SentimentScore
	}
	return sum / float64(len(articles))
}

// RecencyWeighted weights each score by 0.5^(age/HalfLife), age measured at AsOf.
// Articles dated after AsOf count with full weight.
type RecencyWeighted struct {
	HalfLife time.Duration
	AsOf     time.Time
}

func (r RecencyWeighted) Aggregate(articles []models.NewsArticle) float64 {
	if len(articles) == 0 {
		return 0
	}
	if r.HalfLife <= 0 {
		return Mean{}.Aggregate(articles)
	}
	var sum, weights float64
	for _, a := range articles {
		age := r.AsOf.Sub(a.PublishedAt)
		if age < 0 {
			age = 0
		}
		w := math.Pow(0.5, float64(age)/float64(r.HalfLife))
		sum += w * a.SentimentScore
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// New returns the aggregator for a mode; unknown modes fall back to Mean.
func New(mode Mode, halfLife time.Duration, asOf time.Time) Aggregator {
	if mode == ModeRecency {
		return RecencyWeighted{HalfLife: halfLife, AsOf: asOf}
	}
	return Mean{}
}
