package models

import "time"

// Dashboard is the consolidated view served to the UI for one pair and range.
// Errors carries per-source failures that degraded the result without failing it.
type Dashboard struct {
	Pair             CurrencyPair      `json:"pair"`
	Range            string            `json:"range"`
	Points           []RatePoint       `json:"points"`
	KPI              *KPIMetrics       `json:"kpi"`
	NewsScore        float64           `json:"newsScore"`
	ArticleCount     int               `json:"articleCount"`
	Signal           *TradingSignal    `json:"signal"`
	InsufficientData bool              `json:"insufficientData"`
	GeneratedAt      time.Time         `json:"generatedAt"`
	Errors           map[string]string `json:"errors,omitempty"`
}

// MarketComment is a one-sentence comment produced by a tone agent.
type MarketComment struct {
	PairID  string      `json:"pairId"`
	Agent   ToneAgentID `json:"agent"`
	Trend   string      `json:"trend"`
	Comment string      `json:"comment"`
	Cached  bool        `json:"cached"`
}
