package leaderboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Websocket timings.
const (
	pongWait     = 60 * time.Second
	pingInterval = 25 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub pushes every new record to the connected live-feed websockets.
type Hub struct {
	mu      sync.Mutex
	clients map[*subscriber]struct{}
	logger  *log.Logger
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub with no subscribers.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{clients: make(map[*subscriber]struct{}), logger: logger}
}

// Broadcast sends r to every subscriber. Subscribers that fall behind are
// dropped rather than blocking the caller.
func (h *Hub) Broadcast(r Record) {
	msg, err := json.Marshal(r)
	if err != nil {
		h.logger.Error("encode live record", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients {
		select {
		case sub.send <- msg:
		default:
			h.logger.Warn("dropping slow live subscriber", "remote", sub.conn.RemoteAddr())
			h.remove(sub)
		}
	}
}

// Subscribers returns the number of connected websockets.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// remove unregisters sub and closes its send channel. Callers hold h.mu.
func (h *Hub) remove(sub *subscriber) {
	if _, ok := h.clients[sub]; !ok {
		return
	}
	delete(h.clients, sub)
	close(sub.send)
}

// ServeHTTP upgrades the request to a websocket and streams records to it
// until either side closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", "err", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[sub] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("live subscriber connected", "remote", conn.RemoteAddr())

	go h.writeLoop(sub)
	h.readLoop(sub)
}

// readLoop discards client messages and keeps the read deadline fresh with
// pongs. It returns when the connection fails.
func (h *Hub) readLoop(sub *subscriber) {
	defer func() {
		h.mu.Lock()
		h.remove(sub)
		h.mu.Unlock()
		h.logger.Debug("live subscriber disconnected", "remote", sub.conn.RemoteAddr())
	}()

	sub.conn.SetReadLimit(1 << 10)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop is the only writer on the connection. It closes the connection
// when the send channel is closed.
func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
