package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/pongtoe/internal/ws"
)

// HandleRoomWebSocket handles real-time room communication
func HandleRoomWebSocket() gin.HandlerFunc {
	return ws.HandleWebSocket
}
