package handler

import (
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	clientBuffer = 32
	heartbeat    = 25 * time.Second
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
)

// newUpgrader accepts upgrades from the allowed origins, from the serving
// host itself, and from clients that send no Origin header at all.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowAll := slices.Contains(allowedOrigins, "*")
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowAll || slices.Contains(allowedOrigins, origin) {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

func eventTopic(c *gin.Context) (string, error) {
	topic := c.DefaultQuery("topic", events.AllTopics)
	if topic != events.AllTopics && !slices.Contains(events.Topics, topic) {
		return "", apperrors.NewValidationError("topic", "unknown topic")
	}
	return topic, nil
}

// StreamEvents godoc
// @Summary      Stream portal events
// @Description  Server-sent events for catalog, play and achievement changes.
// @Tags         events
// @Produce      text/event-stream
// @Param        topic query string false "games, categories, plays, achievements or * for all" default(*)
// @Success      200 {string} string "event stream"
// @Failure      400 {object} ErrorResponse
// @Router       /events [get]
func (h *Handler) StreamEvents(c *gin.Context) {
	topic, err := eventTopic(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	client := make(events.Client, clientBuffer)
	h.hub.Subscribe(topic, client)
	defer h.hub.Unsubscribe(topic, client)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Header("Content-Type", "text/event-stream")
	c.Status(http.StatusOK)
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// EventsWebSocket godoc
// @Summary      Portal events over WebSocket
// @Description  Same feed as /events, delivered as WebSocket text frames.
// @Tags         events
// @Param        topic query string false "games, categories, plays, achievements or * for all" default(*)
// @Success      101 {string} string "switching protocols"
// @Failure      400 {object} ErrorResponse
// @Router       /events/ws [get]
func (h *Handler) EventsWebSocket(c *gin.Context) {
	topic, err := eventTopic(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnw("failed to upgrade connection", "error", err)
		return
	}

	client := make(events.Client, clientBuffer)
	h.hub.Subscribe(topic, client)

	// Inbound frames are discarded; the read loop only tracks liveness.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.log.Debugw("websocket closed", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.hub.Unsubscribe(topic, client)
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}
