package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/metrics"
)

// EventSubmissionUpdate is emitted by the realtime gateway whenever the
// judge changes a submission's status. The payload is a full submission
// record.
const EventSubmissionUpdate = "submission-update"

const (
	eventJoinRoom  = "join-room"
	eventLeaveRoom = "leave-room"

	defaultDialTimeout = 10 * time.Second
	writeTimeout       = 5 * time.Second
)

// Handler consumes the payload of one realtime event.
type Handler func(data json.RawMessage)

// frame is the wire format of the realtime gateway: a JSON object naming an
// event and carrying its payload.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Transport maintains the single persistent websocket a session holds to the
// realtime gateway. It joins the user's room on connect and leaves it on
// Close. Exactly one handler may be attached per event name; Subscribe
// replaces any previous handler rather than stacking. Reconnection, ordering
// and delivery guarantees are whatever the socket provides; the transport
// adds none on top.
type Transport struct {
	userID string
	logger *zap.Logger

	writeMu sync.Mutex // gorilla allows one concurrent writer
	conn    *websocket.Conn

	mu        sync.RWMutex
	handlers  map[string]Handler
	connected bool
	closed    bool

	done chan struct{}
}

// Dial connects to the realtime gateway, joins the room keyed by userID and
// starts the read loop.
func Dial(ctx context.Context, gatewayURL, userID string, dialTimeout time.Duration, logger *zap.Logger) (*Transport, error) {
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}

	conn, _, err := dialer.DialContext(ctx, gatewayURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime gateway: %w", err)
	}

	t := &Transport{
		userID:    userID,
		logger:    logger,
		conn:      conn,
		handlers:  make(map[string]Handler),
		connected: true,
		done:      make(chan struct{}),
	}

	if err := t.emit(eventJoinRoom, userID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("join room: %w", err)
	}
	logger.Info("Connected to realtime gateway", zap.String("user_id", userID))

	go t.readLoop()
	return t, nil
}

// Subscribe installs the handler for an event name, replacing any handler
// installed before. Callers must re-subscribe whenever the state captured by
// their closure changes.
func (t *Transport) Subscribe(event string, h Handler) {
	t.mu.Lock()
	t.handlers[event] = h
	t.mu.Unlock()
}

// Unsubscribe detaches the handler for an event name. Further frames for the
// event are dropped.
func (t *Transport) Unsubscribe(event string) {
	t.mu.Lock()
	delete(t.handlers, event)
	t.mu.Unlock()
}

// Connected reports whether the read loop is still running.
func (t *Transport) Connected() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.connected
}

// Done is closed when the read loop exits, whether by Close or by a
// transport failure.
func (t *Transport) Done() <-chan struct{} {
	return t.done
}

// Close leaves the room and shuts the socket down. It is safe to call more
// than once.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.connected = false
	t.mu.Unlock()

	// Best effort: the gateway drops room membership on disconnect anyway.
	if err := t.emit(eventLeaveRoom, t.userID); err != nil {
		t.logger.Debug("Leave room failed", zap.Error(err))
	}
	return t.conn.Close()
}

func (t *Transport) emit(event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.conn.WriteJSON(frame{Event: event, Data: raw})
}

func (t *Transport) readLoop() {
	defer close(t.done)
	for {
		_, raw, err := t.conn.ReadMessage()
		if err != nil {
			t.mu.Lock()
			wasClosed := t.closed
			t.connected = false
			t.mu.Unlock()
			if !wasClosed {
				t.logger.Warn("Realtime connection lost",
					zap.String("user_id", t.userID),
					zap.Error(err),
				)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			// A frame the gateway garbled is not a reason to drop the whole
			// connection.
			t.logger.Warn("Malformed realtime frame", zap.Error(err))
			metrics.RealtimeEventsTotal.WithLabelValues("malformed", "dropped").Inc()
			continue
		}

		t.mu.RLock()
		h := t.handlers[f.Event]
		t.mu.RUnlock()

		if h == nil {
			metrics.RealtimeEventsTotal.WithLabelValues(f.Event, "dropped").Inc()
			continue
		}
		metrics.RealtimeEventsTotal.WithLabelValues(f.Event, "dispatched").Inc()
		h(f.Data)
	}
}
