package comment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"FXPulse/internal/domain/service"
	"FXPulse/pkg/config"
	xhttp "FXPulse/pkg/http"
)

var _ service.CommentGenerator = (*HTTPGenerator)(nil)

type generateResponse struct {
	Comment string `json:"comment"`
	Error   string `json:"error"`
}

// HTTPGenerator asks the external text-generation service for a comment.
type HTTPGenerator struct {
	url     string
	retries int
	backoff time.Duration
	client  *xhttp.Client
}

// NewHTTPGenerator builds a generator with timeout, retries and endpoint from config.
func NewHTTPGenerator(cfg *config.Config) *HTTPGenerator {
	timeout := cfg.Comment.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGenerator{
		url:     cfg.Comment.URL,
		retries: cfg.Comment.Retries,
		backoff: 50 * time.Millisecond,
		client: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithBearerToken(cfg.Comment.APIKey),
			xhttp.WithHeader("User-Agent", "fxpulse-comment"),
		),
	}
}

func (g *HTTPGenerator) Generate(ctx context.Context, p service.CommentPrompt) (string, error) {
	if g.client == nil || g.url == "" {
		return "", fmt.Errorf("comment http client not initialized")
	}
	attempts := g.retries + 1
	var err error
	for i := 1; i <= attempts; i++ {
		var text string
		text, err = g.post(ctx, p)
		if err == nil {
			return text, nil
		}
		if !retryable(err) || i == attempts {
			break
		}
		select {
		case <-time.After(time.Duration(i) * g.backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", err
}

func (g *HTTPGenerator) post(ctx context.Context, p service.CommentPrompt) (string, error) {
	var out generateResponse
	if err := g.client.PostJSON(ctx, g.url, p, &out); err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			switch se.Code {
			case http.StatusTooManyRequests:
				return "", service.ErrCommentRateLimited
			case http.StatusPaymentRequired:
				return "", service.ErrCommentPaymentRequired
			}
		}
		return "", fmt.Errorf("generate comment: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("generate comment: %s", out.Error)
	}
	text := strings.TrimSpace(out.Comment)
	if text == "" {
		return "", service.ErrCommentUnavailable
	}
	return text, nil
}

func retryable(err error) bool {
	if errors.Is(err, service.ErrCommentRateLimited) || errors.Is(err, service.ErrCommentPaymentRequired) ||
		errors.Is(err, service.ErrCommentUnavailable) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
