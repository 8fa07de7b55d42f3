package api

import (
	"github.com/gin-gonic/gin"

	"shopware-backend/internal/middleware"
	"shopware-backend/internal/models"
	"shopware-backend/internal/services"
)

// AuthHandlers handles authentication endpoints
type AuthHandlers struct {
	authService *services.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid registration data: "+err.Error())
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// VerifyEmail handles POST /auth/verify-email
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req models.OTPVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid verification data: "+err.Error())
		return
	}

	if err := h.authService.VerifyOTP(req.Email, req.Code); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Email verified successfully")
}

// ResendOTP handles POST /auth/resend-otp
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid email")
		return
	}

	if err := h.authService.SendOTP(req.Email); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Verification code sent")
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.UserLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid login data: "+err.Error())
		return
	}

	user, tokens, err := h.authService.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
		"tokens": tokens,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req models.TokenRefresh
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Refresh token required")
		return
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := h.authService.Logout(middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Logged out successfully")
}
