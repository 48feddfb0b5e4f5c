package calendar

import (
	"sort"
	"strings"

	"FXPulse/internal/domain/models"
)

const (
	DefaultLimit     = 6
	DefaultHeadlines = 3
	unknownTime      = "--:--"
)

var fallbackEvents = []models.CalendarEvent{
	{Currency: "USD", Title: "Fed Chair Powell Speaks", Impact: models.ImpactHigh, Time: "14:00"},
	{Currency: "USD", Title: "Initial Jobless Claims", Impact: models.ImpactMedium, Time: "13:30"},
	{Currency: "EUR", Title: "ECB President Lagarde Speaks", Impact: models.ImpactHigh, Time: "15:00"},
	{Currency: "JPY", Title: "BoJ Interest Rate Decision", Impact: models.ImpactHigh, Time: "03:00"},
	{Currency: "GBP", Title: "UK Retail Sales", Impact: models.ImpactMedium, Time: "07:00"},
	{Currency: "KRW", Title: "BoK Base Rate", Impact: models.ImpactHigh, Time: "09:00"},
}

// Normalize converts a raw feed entry. Entries without currency or title are dropped.
func Normalize(raw models.RawCalendarEvent) (models.CalendarEvent, bool) {
	title := raw.Title
	if title == "" {
		title = raw.Event
	}
	if raw.Currency == "" || title == "" {
		return models.CalendarEvent{}, false
	}

	impact := models.ImpactLow
	switch strings.ToLower(raw.Impact) {
	case "high":
		impact = models.ImpactHigh
	case "medium":
		impact = models.ImpactMedium
	}

	t := raw.Time
	if t == "" {
		t = unknownTime
	}
	return models.CalendarEvent{
		Currency: strings.ToUpper(raw.Currency),
		Title:    title,
		Impact:   impact,
		Time:     t,
	}, true
}

// NormalizeAll normalizes and drops invalid entries, keeping input order.
func NormalizeAll(raw []models.RawCalendarEvent) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0, len(raw))
	for _, r := range raw {
		if e, ok := Normalize(r); ok {
			out = append(out, e)
		}
	}
	return out
}

// Relevant keeps events for the pair's currencies, ordered by impact then time, capped at limit.
func Relevant(events []models.CalendarEvent, pair models.CurrencyPair, limit int) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0, len(events))
	for _, e := range events {
		if pair.Involves(e.Currency) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Impact.Rank(), out[j].Impact.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Time < out[j].Time
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Fallback returns the built-in events for the pair.
func Fallback(pair models.CurrencyPair) []models.CalendarEvent {
	out := make([]models.CalendarEvent, 0, 2)
	for _, e := range fallbackEvents {
		if pair.Involves(e.Currency) {
			out = append(out, e)
		}
	}
	if len(out) > DefaultLimit {
		out = out[:DefaultLimit]
	}
	return out
}

// ForPair resolves raw feed entries into the pair's event list, using the
// fallback list when nothing relevant remains.
func ForPair(raw []models.RawCalendarEvent, pair models.CurrencyPair) []models.CalendarEvent {
	events := Relevant(NormalizeAll(raw), pair, DefaultLimit)
	if len(events) == 0 {
		return Fallback(pair)
	}
	return events
}

// HeadlineTitles returns up to n titles of High impact events.
func HeadlineTitles(events []models.CalendarEvent, n int) []string {
	out := make([]string, 0, n)
	for _, e := range events {
		if len(out) == n {
			break
		}
		if e.Impact == models.ImpactHigh {
			out = append(out, e.Title)
		}
	}
	return out
}
