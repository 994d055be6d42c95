package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/pongtoe/internal/api/handlers"
	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/middleware"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] No-cache headers enabled for all routes")
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))

		rooms := v1.Group("/rooms")
		{
			rooms.POST("", handlers.CreateRoom(cfg))
			rooms.GET("/:token", handlers.GetRoomState())
			rooms.GET("/:token/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleRoomWebSocket())
		}

		matches := v1.Group("/matches")
		{
			matches.GET("", handlers.ListMatches())
			matches.GET("/:id/moves", handlers.GetMatchMoves())
		}

		adminGroup := v1.Group("/admin", handlers.AdminAuthMiddleware(db))
		{
			adminGroup.GET("/rooms", handlers.AdminListRooms(db))
			adminGroup.POST("/rooms/:token/restart", handlers.AdminRestartRoom(db))
			adminGroup.POST("/rooms/:token/close", handlers.AdminCloseRoom(db))
			adminGroup.GET("/audit", handlers.GetAdminAuditLogs(db))
			adminGroup.GET("/config", handlers.GetAdminRuntimeConfig(db))
			adminGroup.PUT("/config/:key", handlers.UpdateAdminRuntimeConfig(db, cfg))
		}
	}
}
