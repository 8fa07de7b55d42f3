package api

import (
	"github.com/gin-gonic/gin"

	"shopware-backend/internal/middleware"
	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
)

// CartHandlers handles shopping cart endpoints
type CartHandlers struct {
	cartService *services.CartService
}

// NewCartHandlers creates new cart handlers
func NewCartHandlers(cartService *services.CartService) *CartHandlers {
	return &CartHandlers{cartService: cartService}
}

// GetCart handles GET /cart
func (h *CartHandlers) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cart)
}

// AddItem handles POST /cart/items
func (h *CartHandlers) AddItem(c *gin.Context) {
	var req models.CartItemAddition
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid cart item: "+err.Error())
		return
	}

	cart, err := h.cartService.AddItem(middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, cart)
}

// UpdateQuantity handles PATCH /cart/items
func (h *CartHandlers) UpdateQuantity(c *gin.Context) {
	var req models.QuantityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid quantity update: "+err.Error())
		return
	}

	cart, err := h.cartService.UpdateQuantity(middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cart)
}

// RemoveItem handles DELETE /cart/items
func (h *CartHandlers) RemoveItem(c *gin.Context) {
	productID := c.Query("productId")
	size := c.Query("size")
	color := c.Query("color")
	if productID == "" || size == "" || color == "" {
		respondBadRequest(c, "productId, size and color are required")
		return
	}

	cart, err := h.cartService.RemoveItem(middleware.UserID(c), productID, size, color)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cart)
}

// ClearCart handles DELETE /cart
func (h *CartHandlers) ClearCart(c *gin.Context) {
	cart, err := h.cartService.Clear(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, cart)
}
