package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/broker"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/response"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// wsEnvelope is the wire frame every message over the stream takes: a
// string discriminator plus its payload.
type wsEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type wsConnectionPayload struct {
	ScheduleID int64 `json:"schedule_id"`
}

// envelopeFor maps one broker.Event to its wire envelope. ok is false for
// an empty event, which should never occur but is never written either way.
func envelopeFor(evt broker.Event) (wsEnvelope, bool) {
	switch {
	case evt.Progress != nil:
		return wsEnvelope{Type: "scheduleGenerationProgress", Data: evt.Progress}, true
	case evt.Complete != nil:
		return wsEnvelope{Type: "scheduleGenerationComplete", Data: evt.Complete}, true
	case evt.Failed != nil:
		return wsEnvelope{Type: "scheduleGenerationFailed", Data: evt.Failed}, true
	default:
		return wsEnvelope{}, false
	}
}

// WebSocketHandler streams generation progress events for one schedule to
// any client connected to /schedules/{id}/ws.
type WebSocketHandler struct {
	broker   *broker.Broker
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler constructs handler.
func NewWebSocketHandler(b *broker.Broker, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		broker: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Stream godoc
// @Summary Stream generation progress for a schedule over a websocket
// @Tags Schedules
// @Param id path int true "Schedule ID"
// @Router /schedules/{id}/ws [get]
func (h *WebSocketHandler) Stream(c *gin.Context) {
	scheduleID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid schedule id"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Int64("schedule_id", scheduleID), zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(wsEnvelope{Type: "connection", Data: wsConnectionPayload{ScheduleID: scheduleID}}); err != nil {
		return
	}

	events, unsubscribe := h.broker.Subscribe(scheduleID)
	defer unsubscribe()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			envelope, ok := envelopeFor(evt)
			if !ok {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(envelope); err != nil {
				return
			}
			if evt.Complete != nil || evt.Failed != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(wsEnvelope{Type: "ping"}); err != nil {
				return
			}
		}
	}
}
