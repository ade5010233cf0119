// Package relay fans controller state blobs out to every connected
// observer. Payloads pass through untouched; the relay knows nothing
// about their encoding.
package relay

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const sendBuffer = 32

type frame struct {
	kind int
	data []byte
}

// Hub tracks connected observers and forwards whatever one of them
// sends to all of the others.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan frame

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan frame),
		upgrader: websocket.Upgrader{
			// Observer pages are served from anywhere, file:// included.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Clients reports the number of connected observers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(conn *websocket.Conn) chan frame {
	ch := make(chan frame, sendBuffer)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(ch)
	}
	h.mu.Unlock()
}

// broadcast queues a frame for every client except the sender. A
// client with a full queue misses the frame instead of stalling
// everyone else.
func (h *Hub) broadcast(from *websocket.Conn, f frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		if conn == from {
			continue
		}
		select {
		case ch <- f:
		default:
			slog.Debug("observer lagging, dropping frame",
				slog.String("addr", conn.RemoteAddr().String()))
		}
	}
}

// Handler upgrades requests and serves each observer until it hangs
// up.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", slog.Any("error", err))
			return
		}
		defer conn.Close()

		ch := h.add(conn)
		defer h.remove(conn)

		slog.Debug("observer connected", slog.String("addr", conn.RemoteAddr().String()))

		go func() {
			for f := range ch {
				if err := conn.WriteMessage(f.kind, f.data); err != nil {
					conn.Close()
					return
				}
			}
		}()

		for {
			kind, data, err := conn.ReadMessage()
			if err != nil {
				break
			}
			h.broadcast(conn, frame{kind: kind, data: data})
		}

		slog.Debug("observer disconnected", slog.String("addr", conn.RemoteAddr().String()))
	})
}

// Close disconnects every observer.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		delete(h.clients, conn)
		close(ch)
		conn.Close()
	}
	return nil
}
