package api

import (
	"github.com/gin-gonic/gin"

	"shopware-backend/internal/middleware"
	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
)

// UserHandlers handles profile and address book endpoints
type UserHandlers struct {
	userService *services.UserService
}

// NewUserHandlers creates new user handlers
func NewUserHandlers(userService *services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// GetProfile handles GET /users/me
func (h *UserHandlers) GetProfile(c *gin.Context) {
	user, addresses, err := h.userService.GetProfile(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"user":      user,
		"addresses": addresses,
	})
}

// UpdateUsername handles PUT /users/me/username
func (h *UserHandlers) UpdateUsername(c *gin.Context) {
	var req models.UsernameUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid username: "+err.Error())
		return
	}

	if err := h.userService.UpdateUsername(middleware.UserID(c), req.Username); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Username updated")
}

// ListAddresses handles GET /users/me/addresses
func (h *UserHandlers) ListAddresses(c *gin.Context) {
	addresses, err := h.userService.ListAddresses(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, addresses)
}

// AddAddress handles POST /users/me/addresses
func (h *UserHandlers) AddAddress(c *gin.Context) {
	var req models.AddressCreation
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid address data: "+err.Error())
		return
	}

	address, err := h.userService.AddAddress(middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, address)
}

// DeleteAddress handles DELETE /users/me/addresses/:id
func (h *UserHandlers) DeleteAddress(c *gin.Context) {
	if err := h.userService.DeleteAddress(middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Address deleted")
}
