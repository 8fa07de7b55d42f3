package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
	"shopware-backend/internal/utils"
)

// AdminHandlers handles admin moderation and reporting endpoints
type AdminHandlers struct {
	adminService *services.AdminService
	orderService *services.OrderService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(adminService *services.AdminService, orderService *services.OrderService) *AdminHandlers {
	return &AdminHandlers{adminService: adminService, orderService: orderService}
}

// ListUsers handles GET /admin/users
func (h *AdminHandlers) ListUsers(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"), 20, 100)
	users, total, err := h.adminService.ListUsers(c.Query("search"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// SetUserBlocked handles PATCH /admin/users/:id/block
func (h *AdminHandlers) SetUserBlocked(c *gin.Context) {
	var req struct {
		Blocked *bool `json:"blocked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "blocked flag required")
		return
	}

	if err := h.adminService.SetUserBlocked(c.Param("id"), *req.Blocked); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "User block status updated")
}

// CreateProduct handles POST /admin/products
func (h *AdminHandlers) CreateProduct(c *gin.Context) {
	var req models.ProductCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid product data: "+err.Error())
		return
	}

	product, err := h.adminService.CreateProduct(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminHandlers) UpdateProduct(c *gin.Context) {
	var req models.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid product data: "+err.Error())
		return
	}

	product, err := h.adminService.UpdateProduct(c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminHandlers) DeleteProduct(c *gin.Context) {
	if err := h.adminService.DeleteProduct(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Product deleted")
}

// UpdateStock handles PATCH /admin/products/:id/stock
func (h *AdminHandlers) UpdateStock(c *gin.Context) {
	var req struct {
		Stock *int `json:"stock" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "stock value required")
		return
	}

	if err := h.adminService.UpdateStock(c.Param("id"), *req.Stock); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Stock updated")
}

// UpdateDiscount handles PATCH /admin/products/:id/discount
func (h *AdminHandlers) UpdateDiscount(c *gin.Context) {
	var req struct {
		Discount *float64 `json:"discount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "discount value required")
		return
	}

	if err := h.adminService.UpdateDiscount(c.Param("id"), *req.Discount); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Discount updated")
}

// ToggleBestSeller handles PATCH /admin/products/:id/bestseller
func (h *AdminHandlers) ToggleBestSeller(c *gin.Context) {
	flagged, err := h.adminService.ToggleBestSeller(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"isBestSeller": flagged})
}

// ListOrders handles GET /admin/orders
func (h *AdminHandlers) ListOrders(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"), 20, 100)
	filter := &models.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
		City:   c.Query("city"),
		State:  c.Query("state"),
		Page:   page,
		Limit:  limit,
	}

	orders, total, err := h.adminService.ListOrders(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"orders": orders,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateOrderStatus handles PATCH /admin/orders/:id/status
func (h *AdminHandlers) UpdateOrderStatus(c *gin.Context) {
	var req models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "status required")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// MarkDelivered handles PATCH /admin/orders/:id/deliver
func (h *AdminHandlers) MarkDelivered(c *gin.Context) {
	order, err := h.orderService.MarkDelivered(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, order)
}

// ListReviews handles GET /admin/reviews
func (h *AdminHandlers) ListReviews(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"), 20, 100)
	reviews, total, err := h.adminService.ListReviews(page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"reviews": reviews,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetDashboard handles GET /admin/dashboard
func (h *AdminHandlers) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// GetSalesAnalytics handles GET /admin/analytics/sales
func (h *AdminHandlers) GetSalesAnalytics(c *gin.Context) {
	series, err := h.adminService.GetSalesAnalytics()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, series)
}

// GetTopProducts handles GET /admin/analytics/top-products
func (h *AdminHandlers) GetTopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := h.adminService.GetTopProducts(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, products)
}
