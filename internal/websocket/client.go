package websocket

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Connection timing. Pings go out well before the peer's read deadline lapses.
const (
	writeTimeout   = 10 * time.Second
	idleTimeout    = 60 * time.Second
	pingInterval   = idleTimeout * 9 / 10
	maxInboundSize = 512
	outboxSize     = 256
)

// ErrSlowClient is returned when a client's outbox is full
var ErrSlowClient = errors.New("client outbox is full")

// Client is one push-only browser connection. Events flow hub -> outbox -> socket;
// anything the browser sends is read only to keep the connection alive.
type Client struct {
	id     string
	conn   *websocket.Conn
	hub    *Hub
	outbox chan []byte

	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

// NewClient wraps an upgraded connection
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		id:     uuid.NewString(),
		conn:   conn,
		hub:    hub,
		outbox: make(chan []byte, outboxSize),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// Send queues an encoded event without blocking
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.outbox <- data:
		return nil
	default:
		return ErrSlowClient
	}
}

// Close shuts the outbox and the socket; repeated calls are no-ops
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.outbox)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// IsClosed reports whether Close has been called
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump drains inbound frames until the peer goes away, then unregisters the client.
// Run it in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(idleTimeout))
	}
	extend("")
	c.conn.SetPongHandler(extend)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

// WritePump writes queued events and keepalive pings. Run it in its own goroutine.
func (c *Client) WritePump() {
	pings := time.NewTicker(pingInterval)
	defer func() {
		pings.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.outbox:
			if !ok {
				c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("client_id", c.id).Msg("WebSocket write failed")
				return
			}
		case <-pings.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, data)
}
