package api

import (
	"context"
	"net/http"
	"time"

	"FXPulse/internal/domain/models"
	"FXPulse/internal/service/metrics"
	"FXPulse/internal/usecase"
	xhttp "FXPulse/pkg/http"
	applogger "FXPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	defaultStreamInterval = 30 * time.Second
	pingPeriod            = 30 * time.Second
	pongWait              = pingPeriod * 2
	writeWait             = 10 * time.Second
	maxMessageSize        = 4096
)

// subscribeMessage switches the pair and range a connection follows.
type subscribeMessage struct {
	Type  string `json:"type" validate:"required,eq=subscribe"`
	Pair  string `json:"pair" validate:"required,len=7"`
	Range string `json:"range" default:"1M" validate:"oneof=1M 3M 1Y"`
}

type streamFrame struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error interface{} `json:"error,omitempty"`
}

// control is what the read loop hands to the write loop.
type control struct {
	sub  *models.DashboardRequest
	verr interface{}
}

// DashboardStreamHandler pushes a pair's dashboard over a websocket on a
// fixed interval.
type DashboardStreamHandler struct {
	dashboards usecase.DashboardBuilder
	interval   time.Duration
	upgrader   websocket.Upgrader
	l          *applogger.Logger
}

func NewDashboardStreamHandler(dashboards usecase.DashboardBuilder, interval time.Duration, l *applogger.Logger) *DashboardStreamHandler {
	if interval <= 0 {
		interval = defaultStreamInterval
	}
	if l == nil {
		l = applogger.Nop()
	}
	metrics.Register()
	return &DashboardStreamHandler{
		dashboards: dashboards,
		interval:   interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		l: l,
	}
}

var _ xhttp.Handler = (*DashboardStreamHandler)(nil)

func (h *DashboardStreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/dashboard", h.Stream)
}

func (h *DashboardStreamHandler) Stream(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.l.Warn("websocket upgrade failed", applogger.Error(err))
		return nil
	}
	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()
	defer conn.Close()

	h.l.Debug("stream opened", applogger.String("remote", c.RealIP()), applogger.String("pair", req.Pair))

	ctrl := make(chan control, 4)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go h.readLoop(conn, ctrl, done, stop)

	h.writeLoop(c.Request().Context(), conn, req, ctrl, done)
	h.l.Debug("stream closed", applogger.String("remote", c.RealIP()))
	return nil
}

// readLoop decodes subscribe messages until the peer goes away.
func (h *DashboardStreamHandler) readLoop(conn *websocket.Conn, ctrl chan<- control, done, stop chan struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg subscribeMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.l.Warn("stream read failed", applogger.Error(err))
			}
			return
		}
		m := control{sub: &models.DashboardRequest{Pair: msg.Pair, Range: msg.Range}}
		if verr := xhttp.ValidateStruct(&msg); verr != nil {
			m = control{verr: verr}
		}
		select {
		case ctrl <- m:
		case <-stop:
			return
		}
	}
}

// writeLoop owns every write on conn.
func (h *DashboardStreamHandler) writeLoop(ctx context.Context, conn *websocket.Conn, req *models.DashboardRequest, ctrl <-chan control, done <-chan struct{}) {
	push := time.NewTicker(h.interval)
	defer push.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := h.pushDashboard(ctx, conn, req); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-done:
			return
		case m := <-ctrl:
			if m.verr != nil {
				if err := h.write(conn, streamFrame{Type: "error", Error: m.verr}); err != nil {
					return
				}
				continue
			}
			req = m.sub
			push.Reset(h.interval)
			if err := h.pushDashboard(ctx, conn, req); err != nil {
				return
			}
		case <-push.C:
			if err := h.pushDashboard(ctx, conn, req); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// pushDashboard sends the current dashboard, or an error frame when it
// cannot be built. Only write failures are returned.
func (h *DashboardStreamHandler) pushDashboard(ctx context.Context, conn *websocket.Conn, req *models.DashboardRequest) error {
	d, err := h.dashboards.Build(ctx, req.Pair, req.Range)
	if err != nil {
		appErr := toAppError(err)
		metrics.Fail("stream", appErr.Code)
		return h.write(conn, streamFrame{Type: "error", Error: appErr})
	}
	return h.write(conn, streamFrame{Type: "dashboard", Data: d})
}

func (h *DashboardStreamHandler) write(conn *websocket.Conn, f streamFrame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(f); err != nil {
		h.l.Debug("stream write failed", applogger.Error(err))
		return err
	}
	return nil
}
