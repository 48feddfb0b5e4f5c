package usecase

import (
	"context"
	"fmt"

	"FXPulse/internal/domain/models"
	"FXPulse/internal/domain/service"
	"FXPulse/internal/services/calendar"
	"FXPulse/internal/services/comment"
	applogger "FXPulse/pkg/logger"
)

// CommentSource produces a possibly cached comment for a pair.
type CommentSource interface {
	Generate(ctx context.Context, pairID string, p service.CommentPrompt) (text string, cached bool, err error)
}

var _ CommentSource = (*comment.Cached)(nil)

// MarketCommentUseCase asks a tone agent for a one-sentence comment on the
// pair's current signal and upcoming calendar events.
type MarketCommentUseCase struct {
	dashboards DashboardBuilder
	comments   CommentSource
	l          *applogger.Logger
}

func NewMarketCommentUseCase(dashboards DashboardBuilder, comments CommentSource, l *applogger.Logger) *MarketCommentUseCase {
	return &MarketCommentUseCase{dashboards: dashboards, comments: comments, l: l}
}

func (uc *MarketCommentUseCase) Comment(ctx context.Context, req models.CommentRequest) (*models.MarketComment, error) {
	pair, ok := models.FindPair(req.Pair)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPair, req.Pair)
	}
	agent := models.AgentByID(models.ToneAgentID(req.Agent))

	trend := uc.trend(ctx, pair, req.Range)
	events := calendar.ForPair(req.Events, pair)
	prompt := service.CommentPrompt{
		PairName: pair.Symbol(),
		Trend:    trend,
		Events:   calendar.HeadlineTitles(events, calendar.DefaultHeadlines),
		AgentID:  agent.ID,
	}

	text, cached, err := uc.comments.Generate(ctx, pair.ID, prompt)
	if err != nil {
		return nil, err
	}
	if uc.l != nil {
		uc.l.Debug("market comment",
			applogger.String("pair", pair.ID),
			applogger.String("agent", string(agent.ID)),
			applogger.Bool("cached", cached),
		)
	}
	return &models.MarketComment{
		PairID:  pair.ID,
		Agent:   agent.ID,
		Trend:   comment.TrendBucket(trend),
		Comment: text,
		Cached:  cached,
	}, nil
}

// trend is the current final score, or 0 when no signal can be computed.
func (uc *MarketCommentUseCase) trend(ctx context.Context, pair models.CurrencyPair, rng string) float64 {
	d, err := uc.dashboards.Build(ctx, pair.ID, rng)
	if err != nil {
		if uc.l != nil {
			uc.l.Warn("comment: dashboard unavailable, using neutral trend",
				applogger.String("pair", pair.ID),
				applogger.Error(err),
			)
		}
		return 0
	}
	if d.Signal == nil {
		return 0
	}
	return d.Signal.FinalScore
}
