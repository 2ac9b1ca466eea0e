// Package livereload pushes reload notifications to open pages over a
// websocket while folio runs in development mode.
//
// One hub goroutine owns the client set. Handlers register and unregister
// through channels, and only the hub closes a client's send channel, so a
// broadcast never races a disconnect.
package livereload

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sooryaraj/folio/internal/logging"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Message is the JSON payload sent to the browser.
type Message struct {
	Type      string    `json:"type"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Message types.
const (
	TypeReload = "reload"
	TypeHello  = "hello"
)

// Client is one connected page.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected pages and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]struct{}
	mu         sync.RWMutex
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	originPatterns []string
	logger         logging.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewHub starts a hub. originPatterns lists extra hosts allowed to connect
// besides the page's own host (see websocket.AcceptOptions).
func NewHub(logger logging.Logger, originPatterns ...string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		clients:        make(map[*Client]struct{}),
		broadcast:      make(chan []byte, 32),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		originPatterns: originPatterns,
		logger:         logger.WithComponent("livereload"),
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug(h.ctx, "Live reload client connected", "clients", n)

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.remove(c)
			}

		case <-h.ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug(h.ctx, "Live reload client disconnected", "clients", n)
}

// ServeHTTP upgrades the request and serves the client until it leaves or
// the hub shuts down.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.ctx.Err() != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  h.originPatterns,
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		// Accept has already written the error response.
		h.logger.Warn(r.Context(), err, "Live reload upgrade failed", "remote", r.RemoteAddr)
		return
	}

	c := &Client{conn: conn, send: make(chan []byte, sendBuffer)}

	select {
	case h.register <- c:
	case <-h.ctx.Done():
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	if hello, err := encode(TypeHello, ""); err == nil {
		select {
		case c.send <- hello:
		default:
		}
	}

	h.serveClient(r.Context(), c)
}

func (h *Hub) serveClient(ctx context.Context, c *Client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	// Pages never send anything; CloseRead discards input and cancels
	// readCtx once the peer goes away. Hub shutdown arrives as a closed
	// send channel, not through readCtx.
	readCtx := c.conn.CloseRead(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			writeCtx, cancel := context.WithTimeout(readCtx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}

		case <-ticker.C:
			writeCtx, cancel := context.WithTimeout(readCtx, writeTimeout)
			err := c.conn.Ping(writeCtx)
			cancel()
			if err != nil {
				return
			}

		case <-readCtx.Done():
			if h.ctx.Err() != nil {
				_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			_ = c.conn.CloseNow()
			return
		}
	}
}

func encode(msgType, reason string) ([]byte, error) {
	return json.Marshal(Message{Type: msgType, Reason: reason, Timestamp: time.Now()})
}

// Broadcast queues msg for every connected client. It never blocks; when
// the queue is full the message is dropped.
func (h *Hub) Broadcast(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(h.ctx, err, "Cannot encode live reload message")
		return
	}

	select {
	case h.broadcast <- data:
	case <-h.ctx.Done():
	default:
		h.logger.Warn(h.ctx, nil, "Live reload queue full, dropping message", "type", msg.Type)
	}
}

// NotifyReload tells every open page to reload.
func (h *Hub) NotifyReload(reason string) {
	h.Broadcast(Message{Type: TypeReload, Reason: reason})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every client and stops the hub.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.shutdownOnce.Do(h.cancel)

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
