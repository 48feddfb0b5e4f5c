package signal

import (
	"strings"
	"testing"

	"FXPulse/internal/domain/models"
)

func TestRationaleHasThreeSentences(t *testing.T) {
	r := Rationale(kpi(1.0143, 1.0033, 0.0266, models.VolatilityHigh), 0.5)
	if len(r) != 3 {
		t.Fatalf("len=%d want 3", len(r))
	}
	if !strings.HasPrefix(r[0], "Uptrend") || !strings.Contains(r[0], "1.10% above") {
		t.Fatalf("trend sentence: %q", r[0])
	}
	if !strings.Contains(r[1], "bullish") || !strings.Contains(r[1], "strong") || !strings.Contains(r[1], "+0.50") {
		t.Fatalf("sentiment sentence: %q", r[1])
	}
	if !strings.Contains(r[2], "high") || !strings.Contains(r[2], "2.66%") || !strings.Contains(r[2], "reduce position size") {
		t.Fatalf("volatility sentence: %q", r[2])
	}
}

func TestRationaleSentimentLabels(t *testing.T) {
	cases := []struct {
		score    float64
		label    string
		strength string
	}{
		{0, "neutral", "weak"},
		{0.05, "neutral", "weak"},
		{-0.15, "bearish", "weak"},
		{0.25, "bullish", "moderate"},
		{-0.7, "bearish", "strong"},
	}
	for _, c := range cases {
		s := sentimentSentence(c.score)
		if !strings.Contains(s, "is "+c.label+" ") || !strings.Contains(s, c.strength+" conviction") {
			t.Fatalf("score %v: %q want %s/%s", c.score, s, c.label, c.strength)
		}
	}
}

func TestRationaleDowntrendAndSizing(t *testing.T) {
	r := Rationale(kpi(1.00, 1.02, 0.008, models.VolatilityMedium), -0.3)
	if !strings.HasPrefix(r[0], "Downtrend") {
		t.Fatalf("trend sentence: %q", r[0])
	}
	if !strings.Contains(r[2], "moderate position sizing") {
		t.Fatalf("volatility sentence: %q", r[2])
	}
	r = Rationale(kpi(1.00, 1.02, 0.001, models.VolatilityLow), 0)
	if !strings.Contains(r[2], "standard position sizing") {
		t.Fatalf("volatility sentence: %q", r[2])
	}
}

func TestRationaleUsesPairPrecision(t *testing.T) {
	k := kpi(151.237, 149.5, 0.004, models.VolatilityLow)
	k.PairID = "USD_JPY"
	if r := trendSentence(k); !strings.Contains(r, "(151.24)") || !strings.Contains(r, "(149.50)") {
		t.Fatalf("JPY quotes use two decimals: %q", r)
	}
	k = kpi(1.08456, 1.08, 0.004, models.VolatilityLow)
	k.PairID = "EUR_USD"
	if r := trendSentence(k); !strings.Contains(r, "(1.0846)") {
		t.Fatalf("USD quotes use four decimals: %q", r)
	}
}
