package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FXPulse/internal/domain/models"
	domrepo "FXPulse/internal/domain/repository"
	pkgkafka "FXPulse/pkg/kafka"
	xutil "FXPulse/pkg/util"
)

// KafkaNewsHandler consumes scored news articles into the news sink.
type KafkaNewsHandler struct {
	topic   string
	sink    domrepo.NewsSink
	metrics domrepo.Metrics
	now     func() time.Time
}

var _ pkgkafka.MessageHandler = (*KafkaNewsHandler)(nil)

func NewKafkaNewsHandler(topic string, sink domrepo.NewsSink, metrics domrepo.Metrics) *KafkaNewsHandler {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &KafkaNewsHandler{topic: topic, sink: sink, metrics: metrics, now: time.Now}
}

func (h *KafkaNewsHandler) Topic() string { return h.topic }

type newsMessage struct {
	ID             string   `json:"id"`
	PairID         string   `json:"pairId"`
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	PublishedAt    string   `json:"publishedAt"`
	Summary        string   `json:"summary"`
	Sentiment      string   `json:"sentiment"`
	SentimentScore *float64 `json:"sentimentScore"`
	URL            string   `json:"url"`
}

// Handle decodes one article. Malformed payloads are permanent failures and
// go to the DLQ without retries.
func (h *KafkaNewsHandler) Handle(ctx context.Context, b []byte) error {
	var m newsMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("news_unmarshal")
		return fmt.Errorf("%w: decode news: %v", pkgkafka.ErrPermanent, err)
	}
	pair, ok := models.FindPair(m.PairID)
	if !ok {
		h.metrics.RecordError("news_pair")
		return fmt.Errorf("%w: unknown pair %q", pkgkafka.ErrPermanent, m.PairID)
	}
	if m.SentimentScore == nil {
		h.metrics.RecordError("news_score")
		return fmt.Errorf("%w: article %q has no sentimentScore", pkgkafka.ErrPermanent, m.ID)
	}

	now := h.now()
	a := models.NewsArticle{
		ID:             m.ID,
		PairID:         pair.ID,
		Title:          m.Title,
		Source:         m.Source,
		PublishedAt:    xutil.ParseTimeDefault(m.PublishedAt, now).UTC(),
		Summary:        m.Summary,
		URL:            m.URL,
		Sentiment:      models.SentimentLabel(m.Sentiment),
		SentimentScore: *m.SentimentScore,
	}
	h.metrics.RecordLatency("news_ingest_lag", now.Sub(a.PublishedAt).Seconds())

	if err := h.sink.AddArticle(ctx, a); err != nil {
		if errors.Is(err, models.ErrSentimentOutOfRange) || errors.Is(err, models.ErrUnknownSentiment) {
			h.metrics.RecordError("news_invalid")
			return fmt.Errorf("%w: %w", pkgkafka.ErrPermanent, err)
		}
		h.metrics.RecordError("news_store")
		return err
	}
	h.metrics.RecordNewsIngested(pair.ID)
	return nil
}
