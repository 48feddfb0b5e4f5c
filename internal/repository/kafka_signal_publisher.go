package repository

import (
	"context"
	"fmt"

	"FXPulse/internal/domain/models"
	domrepo "FXPulse/internal/domain/repository"
	pkgkafka "FXPulse/pkg/kafka"

	"github.com/google/uuid"
)

const signalEventType = "fx.signal.v1"

var _ domrepo.SignalPublisher = (*KafkaSignalPublisher)(nil)

// SignalEvent is the signals-topic payload.
type SignalEvent struct {
	EventID           string                `json:"eventId"`
	PairID            string                `json:"pairId"`
	Date              string                `json:"date"`
	Recommendation    models.Recommendation `json:"recommendation"`
	FinalScore        float64               `json:"finalScore"`
	Confidence        int                   `json:"confidence"`
	TrendScore        float64               `json:"trendScore"`
	NewsScore         float64               `json:"newsScore"`
	VolatilityPenalty float64               `json:"volatilityPenalty"`
	Rationale         []string              `json:"rationale"`
}

// NewSignalEvent stamps a signal with a fresh event id.
func NewSignalEvent(s *models.TradingSignal) SignalEvent {
	return SignalEvent{
		EventID:           uuid.NewString(),
		PairID:            s.PairID,
		Date:              s.Date.Format(models.DateLayout),
		Recommendation:    s.Recommendation,
		FinalScore:        s.FinalScore,
		Confidence:        s.Confidence,
		TrendScore:        s.TrendScore,
		NewsScore:         s.NewsScore,
		VolatilityPenalty: s.VolatilityPenalty,
		Rationale:         s.Rationale,
	}
}

// KafkaSignalPublisher publishes signals keyed by pair id so one pair's
// events stay ordered on a single partition.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) *KafkaSignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, s *models.TradingSignal) error {
	if s == nil {
		return nil
	}
	msg := pkgkafka.Message{
		Key:     []byte(s.PairID),
		Value:   NewSignalEvent(s),
		Headers: map[string]string{"event-type": signalEventType, "content-type": "application/json"},
	}
	if err := p.producer.Publish(ctx, p.topic, msg); err != nil {
		return fmt.Errorf("publish signal %s: %w", s.PairID, err)
	}
	return nil
}

func (p *KafkaSignalPublisher) Close() error {
	return p.producer.Close()
}
