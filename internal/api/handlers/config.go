package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/game"
)

// GetConfig returns the field geometry and tunables a client needs to render
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := game.EngineConfig(cfg)
		if game.Manager != nil {
			engine = game.Manager.Engine()
		}
		c.JSON(http.StatusOK, gin.H{
			"field_width":       game.FieldWidth,
			"field_height":      game.FieldHeight,
			"paddle_width":      game.PaddleWidth,
			"paddle_height":     game.PaddleHeight,
			"token_radius":      game.TokenRadius,
			"board_size":        game.BoardSize,
			"tick_rate":         cfg.TickRate,
			"broadcast_every":   cfg.BroadcastEvery,
			"max_tokens":        engine.MaxTokens,
			"spawn_interval_ms": engine.SpawnInterval.Milliseconds(),
			"commit_delay_ms":   engine.CommitDelay.Milliseconds(),
			"evict_hits":        game.EvictHits,
			"modes":             []game.RoomMode{game.ModeAI, game.ModeVersus},
		})
	}
}
