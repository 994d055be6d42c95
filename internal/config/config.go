package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Simulation
	TickRate        int // steps per second
	BroadcastEvery  int // ticks between frames sent to clients
	MaxTokens       int
	SpawnIntervalMs int
	CommitDelayMs   int

	// Room lifecycle
	RoomExpiryMinutes      int
	RoomIdleSeconds        int
	IdleWorkerPollInterval int

	// Security
	JWTSecret      string
	SeatTokenHours int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Environment: getEnv("APP_ENV", "development"),

		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/pongtoe?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		TickRate:        getEnvInt("TICK_RATE", 60),
		BroadcastEvery:  getEnvInt("BROADCAST_EVERY", 2),
		MaxTokens:       getEnvInt("MAX_TOKENS", 4),
		SpawnIntervalMs: getEnvInt("SPAWN_INTERVAL_MS", 2500),
		CommitDelayMs:   getEnvInt("COMMIT_DELAY_MS", 250),

		RoomExpiryMinutes:      getEnvInt("ROOM_EXPIRY_MINUTES", 10),
		RoomIdleSeconds:        getEnvInt("ROOM_IDLE_SECONDS", 300),
		IdleWorkerPollInterval: getEnvInt("IDLE_WORKER_POLL_SECONDS", 5),

		JWTSecret:      getEnv("JWT_SECRET", "change-me-in-production"),
		SeatTokenHours: getEnvInt("SEAT_TOKEN_HOURS", 12),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
