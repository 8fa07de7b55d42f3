package api

import (
	"github.com/gin-gonic/gin"

	"shopware-backend/internal/middleware"
	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
)

// ReviewHandlers handles review endpoints
type ReviewHandlers struct {
	reviewService *services.ReviewService
}

// NewReviewHandlers creates new review handlers
func NewReviewHandlers(reviewService *services.ReviewService) *ReviewHandlers {
	return &ReviewHandlers{reviewService: reviewService}
}

// CreateReview handles POST /reviews
func (h *ReviewHandlers) CreateReview(c *gin.Context) {
	var req models.ReviewCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid review data: "+err.Error())
		return
	}

	review, err := h.reviewService.CreateReview(middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, review)
}

// UpdateReview handles PUT /reviews/:id
func (h *ReviewHandlers) UpdateReview(c *gin.Context) {
	var req models.ReviewUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid review data: "+err.Error())
		return
	}

	review, err := h.reviewService.UpdateReview(middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, review)
}

// DeleteReview handles DELETE /reviews/:id
func (h *ReviewHandlers) DeleteReview(c *gin.Context) {
	err := h.reviewService.DeleteReview(middleware.UserID(c), c.Param("id"), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Review deleted")
}

// CanReview handles GET /reviews/can-review/:productId
func (h *ReviewHandlers) CanReview(c *gin.Context) {
	eligible, err := h.reviewService.CanReview(middleware.UserID(c), c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"canReview": eligible})
}
