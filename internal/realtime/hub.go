package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/doorlist/doorlist/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The check-in table is same-origin in production and localhost in dev;
	// the registration UI never connects.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Envelope is the wire frame pushed to connected sessions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub fans broadcast frames out to every connected session. All session
// bookkeeping happens on the run loop goroutine, which also gives each
// broadcast a total order as observed by any single session.
type Hub struct {
	register   chan *session
	unregister chan *session
	broadcast  chan []byte
	sessions   map[*session]struct{}

	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *session),
		unregister: make(chan *session),
		broadcast:  make(chan []byte, 64),
		sessions:   make(map[*session]struct{}),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Run owns the session set. Call it once from main; it returns after
// Shutdown.
func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case s := <-h.register:
			h.sessions[s] = struct{}{}
			logger.Debug("realtime session connected", "sessions", len(h.sessions))
		case s := <-h.unregister:
			h.drop(s)
		case frame := <-h.broadcast:
			for s := range h.sessions {
				select {
				case s.send <- frame:
				default:
					// Slow consumer: drop it, the client reconciles by
					// re-fetching the guest list on reconnect.
					h.drop(s)
				}
			}
		case <-h.done:
			for s := range h.sessions {
				h.drop(s)
			}
			return
		}
	}
}

func (h *Hub) drop(s *session) {
	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
	}
}

// Broadcast queues a frame for every connected session. Delivery is
// best-effort; the caller never learns about individual session failures.
func (h *Hub) Broadcast(event string, data any) {
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		logger.Error("failed to marshal broadcast frame", "event", event, "error", err)
		return
	}
	select {
	case h.broadcast <- frame:
	case <-h.done:
	}
}

// Shutdown disconnects all sessions and stops the run loop.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// ServeWS upgrades the request to a WebSocket session. No handshake payload
// is required; the server only pushes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	s := &session{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}

	select {
	case h.register <- s:
	case <-h.done:
		conn.Close()
		return
	}

	go s.writePump()
	go s.readPump()
}

type session struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump discards inbound frames; clients have no inbound contract beyond
// disconnecting.
func (s *session) readPump() {
	defer func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		s.conn.Close()
	}()
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
