package repository

import (
	"encoding/json"
	"testing"
	"time"

	"FXPulse/internal/domain/models"

	"github.com/google/uuid"
)

func TestNewSignalEvent(t *testing.T) {
	s := &models.TradingSignal{
		PairID:         "EUR_USD",
		Date:           time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Recommendation: models.RecommendLong,
		FinalScore:     0.6,
		Confidence:     71,
		Rationale:      []string{"a", "b", "c"},
	}
	ev := NewSignalEvent(s)
	if _, err := uuid.Parse(ev.EventID); err != nil {
		t.Fatalf("eventId %q is not a uuid: %v", ev.EventID, err)
	}
	if ev.Date != "2024-03-01" || ev.Confidence != 71 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if NewSignalEvent(s).EventID == ev.EventID {
		t.Fatalf("event ids must be unique")
	}

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	_ = json.Unmarshal(b, &m)
	for _, k := range []string{"eventId", "pairId", "date", "recommendation", "finalScore", "confidence", "trendScore", "newsScore", "volatilityPenalty", "rationale"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing key %q in %s", k, b)
		}
	}
}
