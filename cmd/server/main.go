package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/pongtoe/internal/admin"
	"github.com/playmatatu/pongtoe/internal/api"
	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/database"
	"github.com/playmatatu/pongtoe/internal/game"
	"github.com/playmatatu/pongtoe/internal/migrations"
	"github.com/playmatatu/pongtoe/internal/redis"
	"github.com/playmatatu/pongtoe/internal/settings"
	"github.com/playmatatu/pongtoe/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Database overrides win over the environment for the engine tunables.
	if err := admin.ApplyRuntimeConfigToConfig(db, cfg); err != nil {
		log.Printf("[CONFIG] Runtime config not applied: %v", err)
	}

	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	game.InitializeManager(db, rdb, cfg)
	game.Manager.SetSettingsFactory(settings.Factory(rdb))

	ws.SetRedisClient(rdb, cfg)
	ws.AttachManager(game.Manager)
	ws.StartRoomEventSubscriber(context.Background())

	game.StartIdleWorker(context.Background(), rdb, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, db, rdb, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting pongtoe server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
