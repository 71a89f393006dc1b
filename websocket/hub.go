package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event types pushed to the admin dashboard.
const (
	EventOrderCreated        = "order_created"
	EventOrderDecided        = "order_decided"
	EventWithdrawalRequested = "withdrawal_requested"
	EventWithdrawalDecided   = "withdrawal_decided"
)

// Event is a message sent over WebSocket to connected dashboards.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents one connected dashboard socket.
type Client struct {
	ID   string
	Conn *websocket.Conn

	mu sync.Mutex
}

func (c *Client) send(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(event)
}

// Hub maintains the set of connected dashboard clients and fans events out
// to all of them.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected client. Write failures drop
// silently; the read loop will unregister dead connections.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event := Event{Type: eventType, Data: payload}
	for _, client := range h.clients {
		if err := client.send(event); err != nil {
			log.Printf("WebSocket write to %s failed: %v", client.ID, err)
		}
	}
}

// NewClient wraps a connection with a fresh id.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:   uuid.New().String(),
		Conn: conn,
	}
}
