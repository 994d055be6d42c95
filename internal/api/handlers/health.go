package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/pongtoe/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(c *gin.Context) {
	rooms := 0
	if game.Manager != nil {
		rooms = game.Manager.ActiveRoomCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"service":      "pongtoe-api",
		"version":      version,
		"uptime":       time.Since(startTime).String(),
		"active_rooms": rooms,
	})
}
