package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
	"shopware-backend/internal/utils"
)

// ProductHandlers handles public catalog endpoints
type ProductHandlers struct {
	productService *services.ProductService
}

// NewProductHandlers creates new product handlers
func NewProductHandlers(productService *services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c *gin.Context) {
	page, limit := utils.ParsePagination(c.Query("page"), c.Query("limit"), 20, 100)

	filter := &models.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}
	if sizes := c.Query("sizes"); sizes != "" {
		filter.Sizes = strings.Split(sizes, ",")
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("minRating"), 64); err == nil {
		filter.MinRating = &v
	}
	if v, err := strconv.ParseFloat(c.Query("minDiscount"), 64); err == nil {
		filter.MinDiscount = &v
	}

	products, total, err := h.productService.ListProducts(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, product)
}

// GetRelatedProducts handles GET /products/:id/related
func (h *ProductHandlers) GetRelatedProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	related, err := h.productService.GetRelatedProducts(c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, related)
}

// GetProductReviews handles GET /products/:id/reviews
func (h *ProductHandlers) GetProductReviews(c *gin.Context) {
	reviews, err := h.productService.ListProductReviews(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reviews)
}

// GetBestSellers handles GET /products/bestsellers
func (h *ProductHandlers) GetBestSellers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := h.productService.GetBestSellers(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, products)
}

// ListCategories handles GET /categories
func (h *ProductHandlers) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, categories)
}
