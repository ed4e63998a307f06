package realtime_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/realtime"
)

type gwFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// fakeGateway is an in-process stand-in for the realtime gateway: it records
// frames the client emits and pushes frames the test hands it.
type fakeGateway struct {
	server   *httptest.Server
	received chan gwFrame
	send     chan gwFrame
	sendRaw  chan []byte
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{
		received: make(chan gwFrame, 16),
		send:     make(chan gwFrame, 16),
		sendRaw:  make(chan []byte, 16),
	}
	upgrader := websocket.Upgrader{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		closed := make(chan struct{})
		go func() {
			for {
				select {
				case f := <-g.send:
					if err := conn.WriteJSON(f); err != nil {
						return
					}
				case raw := <-g.sendRaw:
					if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
						return
					}
				case <-closed:
					return
				}
			}
		}()
		defer close(closed)
		for {
			var f gwFrame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			g.received <- f
		}
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) url() string {
	return "ws" + strings.TrimPrefix(g.server.URL, "http")
}

func (g *fakeGateway) expectFrame(t *testing.T) gwFrame {
	t.Helper()
	select {
	case f := <-g.received:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame from the client")
		return gwFrame{}
	}
}

func (g *fakeGateway) push(t *testing.T, event string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	g.send <- gwFrame{Event: event, Data: raw}
}

func dial(t *testing.T, g *fakeGateway, userID string) *realtime.Transport {
	t.Helper()
	tr, err := realtime.Dial(context.Background(), g.url(), userID, time.Second, zap.NewNop())
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

// Test: the room keyed by the user id is joined immediately on connect.
func TestDial_JoinsUserRoom(t *testing.T) {
	g := newFakeGateway(t)
	dial(t, g, "user-7")

	f := g.expectFrame(t)
	if f.Event != "join-room" {
		t.Fatalf("expected join-room, got %q", f.Event)
	}
	var userID string
	if err := json.Unmarshal(f.Data, &userID); err != nil || userID != "user-7" {
		t.Fatalf("expected room user-7, got %s (err=%v)", f.Data, err)
	}
}

// Test: subscribed handlers receive event payloads.
func TestSubscribe_DispatchesEvents(t *testing.T) {
	g := newFakeGateway(t)
	tr := dial(t, g, "user-7")
	g.expectFrame(t) // join-room

	got := make(chan json.RawMessage, 1)
	tr.Subscribe("submission-update", func(data json.RawMessage) {
		got <- data
	})

	g.push(t, "submission-update", map[string]any{"id": 12, "status": "PROCESSING"})

	select {
	case data := <-got:
		var payload struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("unmarshal payload: %v", err)
		}
		if payload.ID != 12 || payload.Status != "PROCESSING" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never fired")
	}
}

// Test: re-subscribing replaces the handler instead of stacking a second
// one.
func TestSubscribe_ReplacesHandler(t *testing.T) {
	g := newFakeGateway(t)
	tr := dial(t, g, "user-7")
	g.expectFrame(t)

	first := make(chan struct{}, 4)
	second := make(chan struct{}, 4)
	tr.Subscribe("submission-update", func(json.RawMessage) { first <- struct{}{} })
	tr.Subscribe("submission-update", func(json.RawMessage) { second <- struct{}{} })

	g.push(t, "submission-update", map[string]any{"id": 1})

	select {
	case <-second:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement handler never fired")
	}
	select {
	case <-first:
		t.Fatal("replaced handler must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}

// Test: a garbled frame is skipped; the connection and later frames survive.
func TestReadLoop_SkipsMalformedFrames(t *testing.T) {
	g := newFakeGateway(t)
	tr := dial(t, g, "user-7")
	g.expectFrame(t)

	got := make(chan json.RawMessage, 1)
	tr.Subscribe("submission-update", func(data json.RawMessage) {
		got <- data
	})

	g.sendRaw <- []byte("this is not a frame")
	g.push(t, "submission-update", map[string]any{"id": 5})

	select {
	case data := <-got:
		var payload struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(data, &payload); err != nil || payload.ID != 5 {
			t.Fatalf("unexpected payload after malformed frame: %s (err=%v)", data, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("valid frame after a malformed one was never dispatched")
	}
	if !tr.Connected() {
		t.Fatal("a malformed frame must not drop the connection")
	}
}

// Test: events with no handler are dropped without breaking the loop.
func TestUnsubscribe_DropsEvents(t *testing.T) {
	g := newFakeGateway(t)
	tr := dial(t, g, "user-7")
	g.expectFrame(t)

	fired := make(chan struct{}, 4)
	tr.Subscribe("submission-update", func(json.RawMessage) { fired <- struct{}{} })
	tr.Unsubscribe("submission-update")

	g.push(t, "submission-update", map[string]any{"id": 1})

	select {
	case <-fired:
		t.Fatal("detached handler must not fire")
	case <-time.After(50 * time.Millisecond):
	}
	if !tr.Connected() {
		t.Fatal("transport should still be connected")
	}
}

// Test: Close leaves the room and is safe to call twice.
func TestClose_LeavesRoom(t *testing.T) {
	g := newFakeGateway(t)
	tr := dial(t, g, "user-7")
	g.expectFrame(t)

	if err := tr.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	f := g.expectFrame(t)
	if f.Event != "leave-room" {
		t.Fatalf("expected leave-room, got %q", f.Event)
	}

	select {
	case <-tr.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop never exited")
	}
	if tr.Connected() {
		t.Fatal("transport should report disconnected after Close")
	}
}
