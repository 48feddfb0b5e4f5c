package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"FXPulse/internal/domain/models"
	"FXPulse/internal/domain/service"
	icache "FXPulse/internal/service/cache"
	"FXPulse/internal/service/metrics"
	"FXPulse/internal/service/ratelimit"
	"FXPulse/internal/usecase"
	xhttp "FXPulse/pkg/http"
	applogger "FXPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardService builds dashboards from the stores or from inline data.
type DashboardService interface {
	usecase.DashboardBuilder
	Compute(ctx context.Context, req models.ComputeSignalRequest) (*models.Dashboard, error)
}

// CommentService produces tone-agent market comments.
type CommentService interface {
	Comment(ctx context.Context, req models.CommentRequest) (*models.MarketComment, error)
}

// HealthChecker reports whether the rate store is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

var (
	_ DashboardService = (*usecase.DashboardUseCase)(nil)
	_ CommentService   = (*usecase.MarketCommentUseCase)(nil)
)

// DashboardEchoHandler serves the dashboard, inline signal and comment endpoints.
type DashboardEchoHandler struct {
	dashboards DashboardService
	comments   CommentService
	health     HealthChecker
	cache      icache.BytesCache
	cacheTTL   time.Duration
	rl         *ratelimit.Limiter
	l          *applogger.Logger
}

type HandlerOption func(*DashboardEchoHandler)

// WithResponseCache caches successful dashboard responses for ttl.
func WithResponseCache(c icache.BytesCache, ttl time.Duration) HandlerOption {
	return func(h *DashboardEchoHandler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

func WithRateLimiter(rl *ratelimit.Limiter) HandlerOption {
	return func(h *DashboardEchoHandler) { h.rl = rl }
}

func WithHandlerLogger(l *applogger.Logger) HandlerOption {
	return func(h *DashboardEchoHandler) { h.l = l }
}

func NewDashboardEchoHandler(dashboards DashboardService, comments CommentService, health HealthChecker, opts ...HandlerOption) *DashboardEchoHandler {
	metrics.Register()
	h := &DashboardEchoHandler{
		dashboards: dashboards,
		comments:   comments,
		health:     health,
		l:          applogger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ xhttp.Handler = (*DashboardEchoHandler)(nil)

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/pairs", h.Pairs)
	g.GET("/agents", h.Agents)
	g.GET("/dashboard", h.Dashboard)
	g.POST("/signal", h.Signal)
	g.POST("/comment", h.Comment)
	e.GET("/healthz", h.Healthz)
}

func (h *DashboardEchoHandler) Pairs(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.CurrencyPairs)
}

func (h *DashboardEchoHandler) Agents(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.ToneAgents)
}

func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	const endpoint = "dashboard"
	start := time.Now()
	defer metrics.Observe(endpoint, start)

	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Fail(endpoint, "ERR_VALIDATION")
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		metrics.Fail(endpoint, "ERR_RATE_LIMITED")
		return xhttp.TooManyRequestsResponse(c, 1)
	}

	key := "dashboard:" + strings.ToUpper(req.Pair) + ":" + req.Range
	if b, ok := h.cached(key); ok {
		c.Response().Header().Set("X-Cache", "HIT")
		return c.JSONBlob(http.StatusOK, b)
	}

	d, err := h.dashboards.Build(c.Request().Context(), req.Pair, req.Range)
	if err != nil {
		return h.fail(c, endpoint, err)
	}

	b, err := json.Marshal(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: d})
	if err != nil {
		h.l.Error("dashboard encode failed", applogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	// degraded results are not cached so a recovered news source shows up at once
	if len(d.Errors) == 0 {
		h.store(key, b)
	}
	c.Response().Header().Set("X-Cache", "MISS")
	return c.JSONBlob(http.StatusOK, b)
}

func (h *DashboardEchoHandler) Signal(c echo.Context) error {
	const endpoint = "signal"
	defer metrics.Observe(endpoint, time.Now())

	req := &models.ComputeSignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Fail(endpoint, "ERR_VALIDATION")
		return xhttp.BadRequestResponse(c, verr)
	}
	d, err := h.dashboards.Compute(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, d)
}

func (h *DashboardEchoHandler) Comment(c echo.Context) error {
	const endpoint = "comment"
	defer metrics.Observe(endpoint, time.Now())

	req := &models.CommentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		metrics.Fail(endpoint, "ERR_VALIDATION")
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		metrics.Fail(endpoint, "ERR_RATE_LIMITED")
		return xhttp.TooManyRequestsResponse(c, 1)
	}
	res, err := h.comments.Comment(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Healthz(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Health(c.Request().Context()); err != nil {
			h.l.Warn("health check failed", applogger.Error(err))
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"clickhouse": err.Error()})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"clickhouse": "ok"})
}

func (h *DashboardEchoHandler) allow(c echo.Context, endpoint string) bool {
	if h.rl == nil {
		return true
	}
	if h.rl.Allow(c.RealIP() + ":" + endpoint) {
		return true
	}
	h.l.Warn("rate limited", applogger.String("endpoint", endpoint), applogger.String("remote", c.RealIP()))
	return false
}

func (h *DashboardEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.l.Warn("response cache get failed", applogger.String("key", key), applogger.Error(err))
		return nil, false
	}
	return b, ok
}

func (h *DashboardEchoHandler) store(key string, b []byte) {
	if h.cache == nil || h.cacheTTL <= 0 {
		return
	}
	if err := h.cache.SetBytes(key, b, h.cacheTTL); err != nil {
		h.l.Warn("response cache set failed", applogger.String("key", key), applogger.Error(err))
	}
}

func (h *DashboardEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(err)
	metrics.Fail(endpoint, appErr.Code)
	if appErr.Status >= http.StatusInternalServerError {
		h.l.Error(endpoint+" failed", applogger.Error(err))
	} else {
		h.l.Warn(endpoint+" rejected", applogger.String("code", appErr.Code), applogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// toAppError maps use case errors onto HTTP errors.
func toAppError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, usecase.ErrUnknownPair):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrInvalidSeries):
		return xhttp.InvalidFieldError("ERR_INVALID_SERIES", "rates", err.Error()).WithError(err)
	case errors.Is(err, usecase.ErrInvalidSentiment):
		return xhttp.InvalidFieldError("ERR_INVALID_SENTIMENT", "news", err.Error()).WithError(err)
	case errors.Is(err, service.ErrCommentRateLimited):
		return xhttp.TooManyRequestsError("comment service is rate limited, try again later").WithError(err)
	case errors.Is(err, service.ErrCommentPaymentRequired):
		return xhttp.PaymentRequiredError("comment service credits exhausted").WithError(err)
	case errors.Is(err, usecase.ErrRateSource), errors.Is(err, service.ErrCommentUnavailable):
		return xhttp.UpstreamError(err.Error()).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.TimeoutError("upstream timed out").WithError(err)
	default:
		return xhttp.InternalError("something went wrong").WithError(err)
	}
}
