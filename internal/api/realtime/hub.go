// Package realtime pushes fleet updates to WebSocket subscribers.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultIdleTimeout = 60 * time.Second
	writeTimeout       = 10 * time.Second
)

var pingMessage = []byte(`{"type":"ping"}`)

type client struct {
	id   string
	conn *websocket.Conn
	// Serializes writes; gorilla connections allow one concurrent writer.
	mu sync.Mutex
}

func (c *client) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub tracks connected subscribers and fans messages out to them.
type Hub struct {
	upgrader websocket.Upgrader
	initial  func() any

	// IdleTimeout is how long a client may stay silent before it is sent a ping message.
	IdleTimeout time.Duration

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub returns a hub that greets each new subscriber with initial().
// allowedOrigins limits browser origins; "*" allows any.
func NewHub(initial func() any, allowedOrigins []string) *Hub {
	h := &Hub{
		initial:     initial,
		IdleTimeout: defaultIdleTimeout,
		clients:     make(map[string]*client),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowedOrigins, "*") {
				return true
			}
			return slices.Contains(allowedOrigins, origin)
		},
	}
	return h
}

// ServeWS upgrades the request and keeps the subscription open until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: err=%v", err)
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}

	// Broadcasts reach the client only after its initial message.
	if h.initial != nil {
		msg, err := json.Marshal(h.initial())
		if err != nil {
			log.Printf("websocket initial message failed id=%s err=%v", c.id, err)
			conn.Close()
			return
		}
		if err := c.write(msg); err != nil {
			conn.Close()
			return
		}
	}

	h.register(c)
	log.Printf("websocket client connected id=%s clients=%d", c.id, h.Clients())

	defer func() {
		h.unregister(c)
		conn.Close()
		log.Printf("websocket client disconnected id=%s clients=%d", c.id, h.Clients())
	}()

	activity := make(chan struct{}, 1)
	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(c, activity, done)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		select {
		case activity <- struct{}{}:
		default:
		}
	}
}

// keepAlive sends a ping message whenever the client has been silent for IdleTimeout.
func (h *Hub) keepAlive(c *client, activity <-chan struct{}, done <-chan struct{}) {
	timer := time.NewTimer(h.IdleTimeout)
	defer timer.Stop()

	for {
		select {
		case <-done:
			return
		case <-activity:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-timer.C:
			if err := c.write(pingMessage); err != nil {
				return
			}
		}
		timer.Reset(h.IdleTimeout)
	}
}

// Broadcast sends v as JSON to every subscriber. Clients whose write fails are dropped.
func (h *Hub) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Printf("broadcast marshal failed: err=%v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(msg); err != nil {
			log.Printf("websocket write failed id=%s err=%v", c.id, err)
			h.unregister(c)
			c.conn.Close()
		}
	}
}

// Clients reports the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.id] = c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c.id)
}
