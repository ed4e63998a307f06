package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/delivery/http/middleware"
	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development; restrict in production
	},
}

// pushFrame is the wire format of the browser push socket.
type pushFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// verdictNotice is the one-time user-visible notification sent when the
// tracked submission reaches a terminal status.
type verdictNotice struct {
	Status   domain.Status `json:"status"`
	Accepted bool          `json:"accepted"`
	Message  string        `json:"message"`
}

// StreamHandler owns the browser push socket. While a browser is attached it
// subscribes the session's realtime transport to submission updates, runs
// them through the tracker and forwards the accepted ones; detaching the
// handler on disconnect is the only safeguard against stale closures, the
// same as the view unmount behavior it replaces.
type StreamHandler struct {
	logger *zap.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(logger *zap.Logger) *StreamHandler {
	return &StreamHandler{logger: logger}
}

// Stream handles GET /api/v1/ws (WebSocket upgrade)
func (h *StreamHandler) Stream(c *gin.Context) {
	s := middleware.SessionFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	transport := s.Transport()
	if transport == nil {
		// Session is up but the realtime gateway was unreachable at login.
		conn.WriteJSON(pushFrame{Event: "realtime-unavailable"})
		return
	}

	transport.Subscribe(realtime.EventSubmissionUpdate, func(data json.RawMessage) {
		var sub domain.Submission
		if err := json.Unmarshal(data, &sub); err != nil {
			h.logger.Warn("Malformed submission update", zap.Error(err))
			return
		}

		updated := s.Tracker().Apply(&sub)
		if updated == nil {
			return
		}

		if err := conn.WriteJSON(pushFrame{Event: realtime.EventSubmissionUpdate, Data: updated}); err != nil {
			h.logger.Debug("Push write failed (browser disconnected)", zap.Error(err))
			return
		}
		if updated.Status.IsTerminal() {
			conn.WriteJSON(pushFrame{Event: "submission-result", Data: noticeFor(updated)})
		}
	})
	defer transport.Unsubscribe(realtime.EventSubmissionUpdate)

	h.logger.Debug("Browser push socket opened", zap.String("user_id", s.User().ID))

	browserClosed := make(chan struct{})
	go func() {
		defer close(browserClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-browserClosed:
	case <-transport.Done():
		conn.WriteJSON(pushFrame{Event: "realtime-disconnected"})
	}
}

func noticeFor(sub *domain.Submission) verdictNotice {
	if sub.Status == domain.StatusAccepted {
		return verdictNotice{
			Status:   sub.Status,
			Accepted: true,
			Message:  "Success! All test cases passed.",
		}
	}
	return verdictNotice{
		Status:  sub.Status,
		Message: "Submission failed: " + strings.ReplaceAll(string(sub.Status), "_", " "),
	}
}
