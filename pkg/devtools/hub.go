package devtools

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// DefaultTimelineSize is the number of events a Hub keeps when no size is given.
const DefaultTimelineSize = 1000

const writeTimeout = 5 * time.Second

// Hub records runtime events in a bounded timeline and broadcasts each one to
// connected WebSocket clients. It implements reactive.EventSink and is safe
// for concurrent use.
type Hub struct {
	mu sync.RWMutex

	// writeMu serializes broadcasts; a websocket.Conn allows one writer.
	writeMu sync.Mutex

	events   []reactive.Event
	next     int
	full     bool
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

// NewHub creates a hub keeping the last size events.
func NewHub(size int) *Hub {
	if size <= 0 {
		size = DefaultTimelineSize
	}
	return &Hub{
		events:  make([]reactive.Event, size),
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // the inspector is a local dev tool
			},
		},
	}
}

// Emit implements reactive.EventSink.
func (h *Hub) Emit(ev reactive.Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	h.mu.Lock()
	h.events[h.next] = ev
	h.next = (h.next + 1) % len(h.events)
	if h.next == 0 {
		h.full = true
	}
	h.mu.Unlock()

	h.broadcast(ev)
}

// Timeline returns the recorded events, oldest first.
func (h *Hub) Timeline() []reactive.Event {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.full {
		out := make([]reactive.Event, h.next)
		copy(out, h.events[:h.next])
		return out
	}
	out := make([]reactive.Event, 0, len(h.events))
	out = append(out, h.events[h.next:]...)
	return append(out, h.events[:h.next]...)
}

// HandleWebSocket upgrades the request and streams events until the client
// disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *Hub) broadcast(ev reactive.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, c := range clients {
		c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()
			c.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}
