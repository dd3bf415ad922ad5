// Package feed fans campaign ledger events out to WebSocket subscribers.
package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"solana-ido-service/internal/domain"
	"solana-ido-service/internal/observability"
)

// HubConfig configures hub behavior.
type HubConfig struct {
	// ClientBuffer is the per-client outbound queue size. A client whose
	// queue is full gets dropped instead of stalling the fan-out.
	ClientBuffer int
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// PongTimeout is how long a connection may go without a pong.
	PongTimeout time.Duration
}

// DefaultHubConfig returns default hub configuration.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		ClientBuffer: 256,
		PingInterval: 30 * time.Second,
		WriteTimeout: 10 * time.Second,
		PongTimeout:  60 * time.Second,
	}
}

// EventMessage is the wire form of one ledger event.
type EventMessage struct {
	Campaign     string `json:"campaign"`
	Participant  string `json:"participant,omitempty"`
	Kind         string `json:"kind"`
	TokenAmount  uint64 `json:"token_amount"`
	NativeAmount uint64 `json:"native_amount"`
	OccurredAt   int64  `json:"occurred_at"`
}

// Hub broadcasts ledger events to all connected WebSocket clients.
type Hub struct {
	config   HubConfig
	upgrader websocket.Upgrader
	logger   *log.Logger

	clients   map[*client]struct{}
	clientsMu sync.Mutex

	closed bool
	wg     sync.WaitGroup
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

// NewHub creates a hub. A nil config uses defaults.
func NewHub(config *HubConfig, logger *log.Logger) *Hub {
	cfg := DefaultHubConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Hub{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Publish enqueues an event for every connected client. It never blocks:
// clients that cannot keep up are disconnected.
func (h *Hub) Publish(e *domain.LedgerEvent) {
	data, err := json.Marshal(EventMessage{
		Campaign:     e.Campaign,
		Participant:  e.Participant,
		Kind:         string(e.Kind),
		TokenAmount:  e.TokenAmount,
		NativeAmount: e.NativeAmount,
		OccurredAt:   e.OccurredAt,
	})
	if err != nil {
		h.logger.Printf("marshal feed event: %v", err)
		return
	}

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
			observability.DefaultMetrics.FeedEventsFanned.Inc()
		default:
			h.dropLocked(c)
			observability.DefaultMetrics.FeedDroppedClients.Inc()
		}
	}
}

// ServeHTTP upgrades the request to a WebSocket subscription.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("feed upgrade: %v", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, h.config.ClientBuffer),
	}

	h.clientsMu.Lock()
	if h.closed {
		h.clientsMu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.clientsMu.Unlock()
	observability.DefaultMetrics.FeedSubscribers.Inc()

	h.wg.Add(2)
	go h.writeLoop(c)
	go h.readLoop(c)
}

// Close disconnects all clients and stops the hub.
func (h *Hub) Close() error {
	h.clientsMu.Lock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
	h.clientsMu.Unlock()

	h.wg.Wait()
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

// dropLocked removes a client. Caller holds clientsMu.
func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.once.Do(func() { close(c.send) })
	observability.DefaultMetrics.FeedSubscribers.Dec()
}

// drop removes a client and closes its connection.
func (h *Hub) drop(c *client) {
	h.clientsMu.Lock()
	h.dropLocked(c)
	h.clientsMu.Unlock()
	c.conn.Close()
}

// writeLoop pushes queued events and keepalive pings to one client.
func (h *Hub) writeLoop(c *client) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.drop(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(c)
				return
			}
		}
	}
}

// readLoop consumes inbound frames so close and pong handling runs.
// Subscribers are read-only; any payload they send is discarded.
func (h *Hub) readLoop(c *client) {
	defer h.wg.Done()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c)
			return
		}
	}
}
