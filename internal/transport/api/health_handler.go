package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health GET RouteGroup + HealthRoute.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
