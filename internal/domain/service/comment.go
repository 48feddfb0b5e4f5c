package service

import (
	"context"
	"errors"

	"FXPulse/internal/domain/models"
)

var (
	ErrCommentRateLimited     = errors.New("comment service rate limit exceeded")
	ErrCommentPaymentRequired = errors.New("comment service payment required")
	ErrCommentUnavailable     = errors.New("comment service returned no comment")
)

// CommentPrompt is what the text-generation collaborator needs for one comment.
type CommentPrompt struct {
	PairName string             `json:"pairName"`
	Trend    float64            `json:"trend"`
	Events   []string           `json:"events"`
	AgentID  models.ToneAgentID `json:"agentId"`
}

// CommentGenerator produces a one-sentence market comment in an agent's tone.
type CommentGenerator interface {
	Generate(ctx context.Context, p CommentPrompt) (string, error)
}
