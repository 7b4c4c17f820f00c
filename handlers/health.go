package handlers

import (
	"net/http"

	"telecare/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health with the last dependency snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	if !status.CheckedAt.IsZero() && !status.Healthy() {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{
		"status":  state,
		"message": "Hi, I'm TeleCare",
		"checks":  status,
	})
}
