package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrSeriesUnsorted      = errors.New("rate series is not sorted by date")
	ErrSeriesDuplicateDate = errors.New("rate series contains a duplicate date")
	ErrNonPositiveRate     = errors.New("rate must be positive")
)

// CurrencyPair identifies a base/quote pair by its BASE_QUOTE id.
type CurrencyPair struct {
	ID    string `json:"id"`
	Base  string `json:"base"`
	Quote string `json:"quote"`
	Name  string `json:"name"`
	Flag  string `json:"flag"`
}

// CurrencyPairs lists the pairs the dashboard offers.
var CurrencyPairs = []CurrencyPair{
	{ID: "USD_KRW", Base: "USD", Quote: "KRW", Name: "US Dollar / Korean Won", Flag: "🇰🇷"},
	{ID: "USD_JPY", Base: "USD", Quote: "JPY", Name: "US Dollar / Japanese Yen", Flag: "🇯🇵"},
	{ID: "EUR_USD", Base: "EUR", Quote: "USD", Name: "Euro / US Dollar", Flag: "🇪🇺"},
	{ID: "GBP_USD", Base: "GBP", Quote: "USD", Name: "British Pound / US Dollar", Flag: "🇬🇧"},
}

// FindPair looks up a supported pair by id (case-insensitive).
func FindPair(id string) (CurrencyPair, bool) {
	id = strings.ToUpper(strings.TrimSpace(id))
	for _, p := range CurrencyPairs {
		if p.ID == id {
			return p, true
		}
	}
	return CurrencyPair{}, false
}

// Symbol returns the "BASE/QUOTE" display symbol.
func (p CurrencyPair) Symbol() string {
	return p.Base + "/" + p.Quote
}

// Involves reports whether the currency is the pair's base or quote.
func (p CurrencyPair) Involves(currency string) bool {
	c := strings.ToUpper(currency)
	return c == p.Base || c == p.Quote
}

// RateDecimals is the display precision for rates quoted in this pair.
func (p CurrencyPair) RateDecimals() int32 {
	switch p.Quote {
	case "JPY", "KRW":
		return 2
	default:
		return 4
	}
}

// FormatRate renders a rate with the pair's display precision.
func (p CurrencyPair) FormatRate(rate float64) string {
	return decimal.NewFromFloat(rate).StringFixed(p.RateDecimals())
}

// RatePoint is one daily observation.
type RatePoint struct {
	Date time.Time `json:"date"`
	Rate float64   `json:"rate"`
}

// RateSeries is an ascending, duplicate-free sequence of observations for one pair.
type RateSeries struct {
	PairID string      `json:"pairId"`
	Points []RatePoint `json:"points"`
}

// Len returns the number of observations.
func (s RateSeries) Len() int { return len(s.Points) }

// Rates returns the rate column in series order.
func (s RateSeries) Rates() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Rate
	}
	return out
}

// Validate checks ordering, uniqueness and positivity.
func (s RateSeries) Validate() error {
	for i, p := range s.Points {
		if !(p.Rate > 0) {
			return fmt.Errorf("point %d: %w", i, ErrNonPositiveRate)
		}
		if i == 0 {
			continue
		}
		prev := s.Points[i-1].Date
		switch {
		case p.Date.Equal(prev):
			return fmt.Errorf("point %d (%s): %w", i, p.Date.Format(DateLayout), ErrSeriesDuplicateDate)
		case p.Date.Before(prev):
			return fmt.Errorf("point %d (%s): %w", i, p.Date.Format(DateLayout), ErrSeriesUnsorted)
		}
	}
	return nil
}

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"
