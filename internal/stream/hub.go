// Package stream broadcasts simulation frames to websocket clients.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/san-kum/orbitsim/internal/nbody"
	"github.com/san-kum/orbitsim/internal/sim"
)

const writeWait = 2 * time.Second

// Hello is the first message every client receives.
type Hello struct {
	Type   string   `json:"type"`
	Names  []string `json:"names"`
	Colors []string `json:"colors"`
	G      float32  `json:"g"`
	Dt     float64  `json:"dt"`
}

type FrameMessage struct {
	Type      string       `json:"type"`
	Tick      int          `json:"tick"`
	Time      float64      `json:"time"`
	Positions [][3]float32 `json:"positions"`
}

// Controls receives playback changes sent by clients. *sim.Clock
// implements it.
type Controls interface {
	SetSpeed(speed float64)
	SetPaused(paused bool)
}

type controlMessage struct {
	Speed  *float64 `json:"speed"`
	Paused *bool    `json:"paused"`
}

// Hub tracks connected clients. Each connection has its own write lock so
// a slow client only blocks its own writes.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*websocket.Conn]*sync.Mutex
	hello    Hello
	controls Controls
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// NewHub creates a hub. controls may be nil, in which case client control
// messages are ignored.
func NewHub(hello Hello, controls Controls, logger *log.Logger) *Hub {
	hello.Type = "hello"
	return &Hub{
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		hello:    hello,
		controls: controls,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler upgrades the request and serves the client until it disconnects.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "err", err)
			return
		}
		defer conn.Close()

		mu := &sync.Mutex{}
		mu.Lock()
		h.mu.Lock()
		h.clients[conn] = mu
		n := len(h.clients)
		h.mu.Unlock()
		defer h.remove(conn)

		h.logger.Info("client connected", "remote", r.RemoteAddr, "clients", n)

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err = conn.WriteJSON(h.hello)
		mu.Unlock()
		if err != nil {
			h.logger.Warn("hello failed", "remote", r.RemoteAddr, "err", err)
			return
		}

		for {
			var msg controlMessage
			if err := conn.ReadJSON(&msg); err != nil {
				h.logger.Debug("client disconnected", "remote", r.RemoteAddr, "err", err)
				return
			}
			h.apply(msg)
		}
	})
}

func (h *Hub) apply(msg controlMessage) {
	if h.controls == nil {
		return
	}
	if msg.Speed != nil {
		h.logger.Info("speed change", "speed", *msg.Speed)
		h.controls.SetSpeed(*msg.Speed)
	}
	if msg.Paused != nil {
		h.logger.Info("pause", "paused", *msg.Paused)
		h.controls.SetPaused(*msg.Paused)
	}
}

// Publish sends f to every client. Clients whose write fails are closed
// and dropped.
func (h *Hub) Publish(f sim.Frame) {
	msg := FrameMessage{
		Type:      "frame",
		Tick:      f.Tick,
		Time:      f.Time,
		Positions: make([][3]float32, len(f.Positions)),
	}
	for i, p := range f.Positions {
		msg.Positions[i] = p
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("frame not encodable", "tick", f.Tick, "err", err)
		return
	}
	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		h.logger.Error("prepare frame", "err", err)
		return
	}

	h.mu.RLock()
	failed := []*websocket.Conn{}
	for conn, mu := range h.clients {
		mu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WritePreparedMessage(pm)
		mu.Unlock()
		if err != nil {
			h.logger.Warn("websocket write failed", "remote", conn.RemoteAddr(), "err", err)
			failed = append(failed, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range failed {
		conn.Close()
		h.remove(conn)
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, mu := range h.clients {
		mu.Lock()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		mu.Unlock()
		delete(h.clients, conn)
	}
}

// Observer publishes the universe state on every notification.
func Observer(h *Hub) sim.Observer {
	return sim.ObserverFunc(func(tick int, t float64, u *nbody.Universe) {
		h.Publish(sim.NewFrame(tick, t, u))
	})
}
