package models

// Impact ranks calendar events; High sorts first.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// Rank orders impacts High < Medium < Low.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 0
	case ImpactMedium:
		return 1
	default:
		return 2
	}
}

// CalendarEvent is a normalized economic calendar entry.
type CalendarEvent struct {
	Currency string `json:"currency"`
	Title    string `json:"title"`
	Impact   Impact `json:"impact"`
	Time     string `json:"time"`
}

// RawCalendarEvent is a calendar entry as calendar feeds deliver it.
type RawCalendarEvent struct {
	Currency string `json:"currency"`
	Event    string `json:"event"`
	Title    string `json:"title"`
	Impact   string `json:"impact"`
	Time     string `json:"time"`
}
