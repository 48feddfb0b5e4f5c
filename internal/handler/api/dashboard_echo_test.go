package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"FXPulse/internal/domain/service"
	icache "FXPulse/internal/service/cache"
	"FXPulse/internal/service/ratelimit"
	"FXPulse/internal/usecase"

	"github.com/labstack/echo/v4"
)

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type appErrBody struct {
	Code  string `json:"code"`
	Field string `json:"field"`
}

func newTestEcho(h *DashboardEchoHandler) *echo.Echo {
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return env
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var errs []appErrBody
	if err := json.Unmarshal(decode(t, rec).Data, &errs); err != nil || len(errs) == 0 {
		t.Fatalf("expected an error list, got %s", rec.Body.String())
	}
	return errs[0].Code
}

func TestPairsAndAgents(t *testing.T) {
	e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{}, nil))

	rec := do(e, http.MethodGet, "/api/pairs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var pairs []map[string]string
	if err := json.Unmarshal(decode(t, rec).Data, &pairs); err != nil || len(pairs) != 4 {
		t.Fatalf("pairs = %v, err %v", pairs, err)
	}

	rec = do(e, http.MethodGet, "/api/agents", "")
	var agents []map[string]string
	if err := json.Unmarshal(decode(t, rec).Data, &agents); err != nil || len(agents) != 5 {
		t.Fatalf("agents = %v, err %v", agents, err)
	}
}

func TestDashboard_CachesResponses(t *testing.T) {
	dash := &fakeDashboards{}
	h := NewDashboardEchoHandler(dash, &fakeComments{}, nil, WithResponseCache(icache.NewTTLCache(), time.Minute))
	e := newTestEcho(h)

	first := do(e, http.MethodGet, "/api/dashboard?pair=EUR_USD&range=3M", "")
	if first.Code != http.StatusOK || first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first: status %d cache %q", first.Code, first.Header().Get("X-Cache"))
	}
	second := do(e, http.MethodGet, "/api/dashboard?pair=eur_usd&range=3M", "")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second request should be served from cache")
	}
	if dash.Calls() != 1 {
		t.Fatalf("builder called %d times, want 1", dash.Calls())
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body differs")
	}
}

func TestDashboard_DefaultRange(t *testing.T) {
	e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{}, nil))
	rec := do(e, http.MethodGet, "/api/dashboard?pair=USD_KRW", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	var d struct {
		Range string `json:"range"`
	}
	_ = json.Unmarshal(decode(t, rec).Data, &d)
	if d.Range != "1M" {
		t.Fatalf("range = %q, want 1M", d.Range)
	}
}

func TestDashboard_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		target string
		err    error
		status int
		code   string
	}{
		{"bad pair length", "/api/dashboard?pair=EURUSD", nil, http.StatusBadRequest, "ERR_LEN"},
		{"bad range", "/api/dashboard?pair=EUR_USD&range=5Y", nil, http.StatusBadRequest, "ERR_ONEOF"},
		{"unknown pair", "/api/dashboard?pair=BTC_USD", fmt.Errorf("%w: BTC_USD", usecase.ErrUnknownPair), http.StatusNotFound, "ERR_NOT_FOUND"},
		{"rate source", "/api/dashboard?pair=EUR_USD", fmt.Errorf("%w: %w", usecase.ErrRateSource, errors.New("timeout")), http.StatusBadGateway, "ERR_UPSTREAM"},
		{"unexpected", "/api/dashboard?pair=EUR_USD", errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{err: tc.err}, &fakeComments{}, nil))
			rec := do(e, http.MethodGet, tc.target, "")
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tc.code {
				t.Fatalf("code = %s, want %s", got, tc.code)
			}
		})
	}
}

func TestDashboard_RateLimited(t *testing.T) {
	h := NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{}, nil, WithRateLimiter(ratelimit.New(1, 0)))
	e := newTestEcho(h)

	if rec := do(e, http.MethodGet, "/api/dashboard?pair=EUR_USD", ""); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	rec := do(e, http.MethodGet, "/api/dashboard?pair=EUR_USD", "")
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("second status = %d, want 429 with Retry-After", rec.Code)
	}
}

func TestSignal(t *testing.T) {
	e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{}, nil))
	body := `{"pair":"EUR_USD","rates":[{"date":"2024-01-01","rate":1.1},{"date":"2024-01-02","rate":1.2}],"news":[{"sentimentScore":0.3}]}`
	if rec := do(e, http.MethodPost, "/api/signal", body); rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}

	rec := do(e, http.MethodPost, "/api/signal", `{"pair":"EUR_USD","rates":[{"date":"01/02/2024","rate":1.1}]}`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "ERR_DATETIME" {
		t.Fatalf("bad date: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/signal", `{"pair":"EUR_USD","rates":[{"date":"2024-01-01","rate":1.1}],"news":[{"title":"x"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing score: status %d", rec.Code)
	}
}

func TestSignal_UseCaseErrors(t *testing.T) {
	body := `{"pair":"EUR_USD","rates":[{"date":"2024-01-02","rate":1.1},{"date":"2024-01-01","rate":1.2}]}`
	cases := map[string]struct {
		err  error
		code string
	}{
		"series":    {fmt.Errorf("%w: unsorted", usecase.ErrInvalidSeries), "ERR_INVALID_SERIES"},
		"sentiment": {fmt.Errorf("%w: out of range", usecase.ErrInvalidSentiment), "ERR_INVALID_SENTIMENT"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{compErr: tc.err}, &fakeComments{}, nil))
			rec := do(e, http.MethodPost, "/api/signal", body)
			if rec.Code != http.StatusBadRequest || errorCode(t, rec) != tc.code {
				t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestComment(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"rate limited", service.ErrCommentRateLimited, http.StatusTooManyRequests},
		{"payment required", service.ErrCommentPaymentRequired, http.StatusPaymentRequired},
		{"unavailable", service.ErrCommentUnavailable, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{err: tc.err}, nil))
			rec := do(e, http.MethodPost, "/api/comment", `{"pair":"USD_JPY","agent":"zen"}`)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestComment_RejectsUnknownAgent(t *testing.T) {
	e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{}, nil))
	rec := do(e, http.MethodPost, "/api/comment", `{"pair":"USD_JPY","agent":"pirate"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	e := newTestEcho(NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{}, fakeHealth{}))
	if rec := do(e, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	e = newTestEcho(NewDashboardEchoHandler(&fakeDashboards{}, &fakeComments{}, fakeHealth{err: errors.New("dial tcp: refused")}))
	if rec := do(e, http.MethodGet, "/healthz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
