package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func Health(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   serviceName,
			"timestamp": time.Now(),
		})
	}
}
