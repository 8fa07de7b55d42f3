package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopware-backend/internal/services"
)

// respondError translates a service error into the JSON envelope.
// Untyped errors are logged and surfaced as 500.
func respondError(c *gin.Context, err error) {
	status := services.StatusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "Internal server error"
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}
