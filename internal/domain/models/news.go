package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrSentimentOutOfRange = errors.New("sentiment score must be within [-1, 1]")
	ErrUnknownSentiment    = errors.New("unknown sentiment label")
)

// SentimentLabel is informational; only the score is used numerically.
type SentimentLabel string

const (
	SentimentBullish SentimentLabel = "bullish"
	SentimentBearish SentimentLabel = "bearish"
	SentimentNeutral SentimentLabel = "neutral"
)

// NewsArticle is a pre-scored article for a pair.
type NewsArticle struct {
	ID             string         `json:"id"`
	PairID         string         `json:"pairId"`
	Title          string         `json:"title"`
	Source         string         `json:"source"`
	PublishedAt    time.Time      `json:"publishedAt"`
	Summary        string         `json:"summary"`
	URL            string         `json:"url"`
	Sentiment      SentimentLabel `json:"sentiment"`
	SentimentScore float64        `json:"sentimentScore"`
}

// Validate checks the score bounds and label. An empty label is accepted.
func (a NewsArticle) Validate() error {
	if math.IsNaN(a.SentimentScore) || a.SentimentScore < -1 || a.SentimentScore > 1 {
		return fmt.Errorf("article %q score %v: %w", a.ID, a.SentimentScore, ErrSentimentOutOfRange)
	}
	switch a.Sentiment {
	case "", SentimentBullish, SentimentBearish, SentimentNeutral:
		return nil
	default:
		return fmt.Errorf("article %q label %q: %w", a.ID, a.Sentiment, ErrUnknownSentiment)
	}
}
