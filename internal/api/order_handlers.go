package api

import (
	"github.com/gin-gonic/gin"

	"shopware-backend/internal/middleware"
	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
)

// OrderHandlers handles order endpoints
type OrderHandlers struct {
	orderService *services.OrderService
}

// NewOrderHandlers creates new order handlers
func NewOrderHandlers(orderService *services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// PlaceOrder handles POST /orders
func (h *OrderHandlers) PlaceOrder(c *gin.Context) {
	var req models.OrderCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid order data: "+err.Error())
		return
	}

	order, err := h.orderService.PlaceOrder(middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, order)
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListUserOrders(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, orders)
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(middleware.UserID(c), c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// CancelOrder handles POST /orders/:id/cancel
func (h *OrderHandlers) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(middleware.UserID(c), c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}
