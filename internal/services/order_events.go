package services

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"shopware-backend/internal/models"
)

// OrderEvent is broadcast to connected clients whenever an order is
// placed, cancelled or moved through the status machine
type OrderEvent struct {
	Type      string             `json:"type"`
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Status    models.OrderStatus `json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

// OrderEventHub fans order events out to connected websocket clients
type OrderEventHub struct {
	clients    map[*eventClient]bool
	broadcast  chan OrderEvent
	register   chan *eventClient
	unregister chan *eventClient
	mutex      sync.RWMutex
}

type eventClient struct {
	conn *websocket.Conn
	send chan OrderEvent
}

// NewOrderEventHub creates the hub and starts its dispatch loop
func NewOrderEventHub() *OrderEventHub {
	hub := &OrderEventHub{
		clients:    make(map[*eventClient]bool),
		broadcast:  make(chan OrderEvent, 64),
		register:   make(chan *eventClient),
		unregister: make(chan *eventClient),
	}
	go hub.run()
	return hub
}

// Publish queues an event for broadcast. Never blocks the caller.
func (h *OrderEventHub) Publish(event OrderEvent) {
	event.Timestamp = time.Now()
	select {
	case h.broadcast <- event:
	default:
		log.Printf("Order event dropped, broadcast queue full: %s %s", event.Type, event.OrderID)
	}
}

// Register attaches a websocket connection to the hub and pumps events
// to it until the connection closes
func (h *OrderEventHub) Register(conn *websocket.Conn) {
	client := &eventClient{
		conn: conn,
		send: make(chan OrderEvent, 16),
	}
	h.register <- client

	go client.writePump(h)
	go client.readPump(h)
}

// ClientCount returns the number of connected clients
func (h *OrderEventHub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *OrderEventHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()

		case event := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// slow client, skip this event
				}
			}
			h.mutex.RUnlock()
		}
	}
}

func (c *eventClient) writePump(h *OrderEventHub) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *eventClient) readPump(h *OrderEventHub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
