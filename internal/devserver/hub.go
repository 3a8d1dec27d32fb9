package devserver

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/peaque/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// HMREvent is one HMR notification (spec.md §4.E "HMR protocol"): the
// browser peer receives it wrapped as {"data": event}.
type HMREvent struct {
	Event string `json:"event"`
	Path  string `json:"path"`
}

// peer is one connected HMR WebSocket client.
type peer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans HMR broadcasts out to every connected peer, delivering each
// peer's messages in the order they were broadcast (spec.md §5 ordering
// guarantee). Grounded on the teacher's PreviewServer WebSocket hub
// (internal/server/websocket.go): a single goroutine owns the
// register/unregister/broadcast channels and the client map, so adding,
// removing, and fanning out a broadcast never race each other.
type Hub struct {
	logger logging.Logger

	register   chan *peer
	unregister chan *peer
	broadcast  chan []byte
	done       chan struct{}
}

// NewHub constructs a Hub. Call Run to start its goroutine.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *peer),
		unregister: make(chan *peer),
		broadcast:  make(chan []byte, 16),
		done:       make(chan struct{}),
	}
}

// Run drives the hub until ctx is cancelled. It must run in its own
// goroutine before Upgrade or Broadcast are called.
func (h *Hub) Run(ctx context.Context) {
	clients := map[*peer]struct{}{}
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for p := range clients {
				close(p.send)
			}
			return
		case p := <-h.register:
			clients[p] = struct{}{}
		case p := <-h.unregister:
			if _, ok := clients[p]; ok {
				delete(clients, p)
				close(p.send)
			}
		case msg := <-h.broadcast:
			for p := range clients {
				select {
				case p.send <- msg:
				default:
					delete(clients, p)
					close(p.send)
				}
			}
		}
	}
}

// Broadcast enqueues msg (already JSON-encoded) for delivery to every
// connected peer.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Upgrade accepts r as a WebSocket connection and registers it as a new
// HMR peer, blocking until the connection closes.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn(r.Context(), err, "devserver: hmr upgrade failed")
		}
		return
	}

	p := &peer{conn: conn, send: make(chan []byte, 64)}
	h.register <- p

	go h.readLoop(p)
	h.writeLoop(p)
}

func (h *Hub) readLoop(p *peer) {
	defer func() { h.unregister <- p }()
	for {
		ctx, cancel := context.WithTimeout(context.Background(), pongWait)
		_, _, err := p.conn.Read(ctx)
		cancel()
		if err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = p.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case msg, ok := <-p.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := p.conn.Write(ctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := p.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
