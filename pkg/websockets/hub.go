package websockets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// sendBuffer is how many messages a client may fall behind before it is dropped.
	sendBuffer = 64
)

// Conn is the part of a gorilla connection the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type client struct {
	conn Conn
	send chan []byte
}

// Hub broadcasts messages to WebSocket clients connected directly to this process.
// It serves local development, where there is no API Gateway in front of the server.
// Each client has its own writer goroutine, so Publish never waits on a socket.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{clients: make(map[string]*client), logger: logger}
}

// Make sure we conform to the interface
var _ Publisher = (*Hub)(nil)

// Register starts broadcasting to conn and returns its connection ID.
func (h *Hub) Register(conn Conn) string {
	id := uuid.New().String()
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()

	go h.writePump(id, c)
	return id
}

// Unregister stops broadcasting to a connection.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish queues message for every registered connection. A client whose
// queue is full is dropped.
func (h *Hub) Publish(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping slow connection", "connectionId", id)
			h.removeLocked(id)
		}
	}
	return nil
}

// removeLocked closes the client's queue. Its writer closes the connection.
func (h *Hub) removeLocked(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
}

func (h *Hub) writePump(id string, c *client) {
	defer c.conn.Close()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.Info("dropping unreachable connection", "connectionId", id, "error", err)
			h.Unregister(id)
			return
		}
	}
}
