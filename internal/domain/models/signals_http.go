package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type DashboardRequest struct {
	Pair  string `query:"pair" json:"pair" validate:"required,len=7"`
	Range string `query:"range" json:"range" default:"1M" validate:"oneof=1M 3M 1Y"`
}

type RatePointRequest struct {
	Date string  `json:"date" validate:"required,datetime=2006-01-02"`
	Rate float64 `json:"rate" validate:"gt=0"`
}

type NewsArticleRequest struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Source         string   `json:"source"`
	PublishedAt    string   `json:"publishedAt"`
	Sentiment      string   `json:"sentiment" validate:"omitempty,oneof=bullish bearish neutral"`
	SentimentScore *float64 `json:"sentimentScore" validate:"required,gte=-1,lte=1"`
	URL            string   `json:"url"`
}

type ComputeSignalRequest struct {
	Pair  string               `json:"pair" validate:"required,len=7"`
	Rates []RatePointRequest   `json:"rates" validate:"required,min=1,max=2000,dive"`
	News  []NewsArticleRequest `json:"news" validate:"max=500,dive"`
}

type CommentRequest struct {
	Pair   string             `json:"pair" validate:"required,len=7"`
	Agent  string             `json:"agent" default:"pro" validate:"oneof=pro cheerful dry professor zen"`
	Range  string             `json:"range" default:"1M" validate:"oneof=1M 3M 1Y"`
	Events []RawCalendarEvent `json:"events" validate:"max=200"`
}
