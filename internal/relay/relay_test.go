package relay

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != want {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", h.Clients(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubForwardsToOthers(t *testing.T) {
	h := NewHub()
	defer h.Close()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	sender := dialTestHub(t, srv)
	obs1 := dialTestHub(t, srv)
	obs2 := dialTestHub(t, srv)
	waitForClients(t, h, 3)

	blob := []byte(`{"axes":[120,-88]}`)
	if err := sender.WriteMessage(websocket.TextMessage, blob); err != nil {
		t.Fatalf("write: %v", err)
	}

	for i, obs := range []*websocket.Conn{obs1, obs2} {
		obs.SetReadDeadline(time.Now().Add(2 * time.Second))
		kind, got, err := obs.ReadMessage()
		if err != nil {
			t.Fatalf("observer %d read: %v", i, err)
		}
		if kind != websocket.TextMessage {
			t.Errorf("observer %d frame type = %d", i, kind)
		}
		if string(got) != string(blob) {
			t.Errorf("observer %d got %q", i, got)
		}
	}
}

func TestHubDoesNotEchoToSender(t *testing.T) {
	h := NewHub()
	defer h.Close()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	sender := dialTestHub(t, srv)
	observer := dialTestHub(t, srv)
	waitForClients(t, h, 2)

	if err := sender.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The observer sees the frame, the sender must not.
	observer.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := observer.ReadMessage(); err != nil {
		t.Fatalf("observer read: %v", err)
	}

	sender.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	if _, _, err := sender.ReadMessage(); err == nil {
		t.Fatal("sender received its own frame")
	}
}

func TestHubUnregistersOnClose(t *testing.T) {
	h := NewHub()
	defer h.Close()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	first := dialTestHub(t, srv)
	dialTestHub(t, srv)
	waitForClients(t, h, 2)

	first.Close()
	waitForClients(t, h, 1)
}

func TestHubCloseDisconnectsAll(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	conn := dialTestHub(t, srv)
	waitForClients(t, h, 1)

	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if h.Clients() != 0 {
		t.Fatalf("clients = %d after close", h.Clients())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("read succeeded on a closed hub")
	}
}
