package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"shopware-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandlers exposes the order event feed over websocket
type WSHandlers struct {
	hub *services.OrderEventHub
}

// NewWSHandlers creates new websocket handlers
func NewWSHandlers(hub *services.OrderEventHub) *WSHandlers {
	return &WSHandlers{hub: hub}
}

// OrderEvents handles GET /ws/orders. Connected clients receive order
// placement, cancellation and status-change events as they happen.
func (h *WSHandlers) OrderEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
		return
	}
	h.hub.Register(conn)
}
