package gateway

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"motion_arena/internal/domain/event"
)

const sendBufferSize = 64

// Client is one live realtime connection. UserID stays empty for
// connections that could not be tied to a logged-in user, such clients
// receive nothing and their events are dropped.
type Client struct {
	ID       string
	UserID   string
	Username string

	conn *websocket.Conn
	send chan event.Envelope

	mu     sync.Mutex
	closed bool
}

func newClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		send: make(chan event.Envelope, sendBufferSize),
	}
}

func (c *Client) Authenticated() bool {
	return c.UserID != ""
}

// enqueue hands an envelope to the write pump without blocking. A full
// buffer means the peer stopped reading, the frame is dropped. The
// mutex serializes enqueue against close, a broadcaster that caught a
// stale room snapshot must never send on the closed channel.
func (c *Client) enqueue(env event.Envelope) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- env:
		return true
	default:
		return false
	}
}

func (c *Client) writePump(log *zap.SugaredLogger) {
	for env := range c.send {
		if err := c.conn.WriteJSON(env); err != nil {
			log.Errorf("write to client %s failed: %v", c.ID, err)
			c.conn.Close()
			return
		}
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

func marshalEnvelope(eventName string, payload any) (event.Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return event.Envelope{}, err
	}
	return event.Envelope{Event: eventName, Data: data}, nil
}
