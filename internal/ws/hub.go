// Package ws streams dungeon layouts and agent movement to websocket clients
// and turns their node clicks into selections.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/go-logr/logr"
)

const (
	writeTimeout = 3 * time.Second
	// sendQueue is how many messages a client may fall behind before it is
	// dropped.
	sendQueue = 16
)

// Conn is the part of *websocket.Conn the hub writes to.
type Conn interface {
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Close(code websocket.StatusCode, reason string) error
}

// Hub fans messages out to connected clients. Every client has its own queue
// drained by its own writer goroutine, so Broadcast never blocks on the
// network.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]chan []byte
	log     logr.Logger
}

// NewHub creates an empty hub.
func NewHub(logger logr.Logger) *Hub {
	return &Hub{clients: make(map[Conn]chan []byte), log: logger}
}

// Add registers a client and starts its writer.
func (h *Hub) Add(conn Conn) {
	queue := make(chan []byte, sendQueue)
	h.mu.Lock()
	h.clients[conn] = queue
	h.mu.Unlock()
	go h.write(conn, queue)
}

// Remove unregisters a client and stops its writer. Removing an unknown
// client is a no-op.
func (h *Hub) Remove(conn Conn) {
	h.mu.Lock()
	h.drop(conn)
	h.mu.Unlock()
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues message for every client. A client whose queue is full is
// dropped and its connection closed.
func (h *Hub) Broadcast(message []byte) {
	var slow []Conn
	h.mu.Lock()
	for conn, queue := range h.clients {
		select {
		case queue <- message:
		default:
			h.drop(conn)
			slow = append(slow, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range slow {
		h.log.Info("dropping client that fell behind", "queued", sendQueue)
		go conn.Close(websocket.StatusPolicyViolation, "client too slow")
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(conn Conn) {
	if queue, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(queue)
	}
}

func (h *Hub) write(conn Conn, queue <-chan []byte) {
	for message := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			h.log.V(1).Info("client write failed", "error", err.Error())
			h.Remove(conn)
			_ = conn.Close(websocket.StatusGoingAway, "write failed")
			return
		}
	}
}
