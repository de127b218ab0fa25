package libraries

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"lexedit-backend/internal/lexedit/events"
)

func receive(t *testing.T, c *Client) WebSocketMessage {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg WebSocketMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatalf("no message for %s", c.ID)
	}
	return WebSocketMessage{}
}

func TestHubRoutesEventsBySession(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{ID: "a", SessionID: "s1", Send: make(chan []byte, 4)}
	b := &Client{ID: "b", SessionID: "s2", Send: make(chan []byte, 4)}
	hub.Register <- a
	hub.Register <- b

	events.Msg(context.Background(), hub.Emitter("s1"), "Nothing to Undo", "Undo", events.KindInfo)

	msg := receive(t, a)
	if msg.Type != WebSocketMessageType(events.Toast) {
		t.Fatalf("unexpected type %s", msg.Type)
	}
	data, _ := msg.Data.(map[string]any)
	if data["text"] != "Nothing to Undo" {
		t.Errorf("unexpected payload %+v", msg.Data)
	}

	select {
	case <-b.Send:
		t.Errorf("event leaked to another session")
	case <-time.After(50 * time.Millisecond):
	}

	hub.Unregister <- a
	if _, ok := <-a.Send; ok {
		t.Errorf("send channel not closed on unregister")
	}
}

func TestRepliesAfterUnregisterAreDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{ID: "c", SessionID: "s1", Send: make(chan []byte, 1)}
	hub.Register <- c
	hub.Unregister <- c
	if _, ok := <-c.Send; ok {
		t.Fatalf("send channel not closed on unregister")
	}

	sendPongMessage(hub, c)
	SendErrorMessage(hub, c, "Invalid JSON format")
	hub.Unregister <- c
}

func TestSendMessageDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub()
	c := &Client{ID: "c", SessionID: "s1", Send: make(chan []byte, 1)}

	done := make(chan struct{})
	go func() {
		sendPongMessage(hub, c)
		sendPongMessage(hub, c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("reply blocked on a full client buffer")
	}
	if msg := receive(t, c); msg.Type != WebSocketMessageTypePong {
		t.Errorf("expected pong, got %s", msg.Type)
	}
}

func TestParseWebSocketMessage(t *testing.T) {
	msg, err := parseWebSocketMessage([]byte(`{"type":"ping"}`))
	if err != nil || msg.Type != WebSocketMessageTypePing {
		t.Fatalf("unexpected %+v %v", msg, err)
	}
	if _, err := parseWebSocketMessage([]byte(`{`)); err == nil {
		t.Errorf("expected an error for bad JSON")
	}
}
