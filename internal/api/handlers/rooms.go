package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/pongtoe/internal/auth"
	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/game"
)

type createRoomRequest struct {
	Mode         string `json:"mode"`
	PlayerID     string `json:"player_id"`
	PlayerName   string `json:"player_name"`
	OpponentID   string `json:"opponent_id"`
	OpponentName string `json:"opponent_name"`
}

type seatResponse struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name,omitempty"`
	Side        string `json:"side"`
	SeatToken   string `json:"seat_token"`
	WSURL       string `json:"ws_url"`
}

func roomWSURL(roomToken, seatToken string) string {
	return fmt.Sprintf("/api/v1/rooms/%s/ws?st=%s", roomToken, seatToken)
}

// CreateRoom opens a waiting room and hands out one signed seat token per
// human player. The room starts once every seat has connected.
func CreateRoom(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createRoomRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
				return
			}
		}
		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
			return
		}

		r, err := game.Manager.CreateRoom(game.RoomOptions{
			Mode:         game.RoomMode(req.Mode),
			PlayerID:     sanitizePlayerID(req.PlayerID),
			PlayerName:   sanitizeName(req.PlayerName),
			OpponentID:   sanitizePlayerID(req.OpponentID),
			OpponentName: sanitizeName(req.OpponentName),
		})
		if errors.Is(err, game.ErrNotAllowed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be ai or versus"})
			return
		}
		if err != nil {
			log.Printf("[API] Failed to create room: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
			return
		}

		ttl := time.Duration(cfg.SeatTokenHours) * time.Hour
		summary := r.Summary()
		seats := []game.Seat{summary.Left}
		if summary.Right != nil {
			seats = append(seats, *summary.Right)
		}

		resp := make([]seatResponse, 0, len(seats))
		for _, s := range seats {
			st, err := auth.IssueSeatToken(cfg.JWTSecret, r.Token, s.ID, s.Side, ttl)
			if err != nil {
				log.Printf("[API] Failed to sign seat token for room %s: %v", r.Token, err)
				game.Manager.CloseRoom(r.Token, "seat_token_failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue seat tokens"})
				return
			}
			resp = append(resp, seatResponse{
				PlayerID:    s.ID,
				DisplayName: s.DisplayName,
				Side:        s.Side,
				SeatToken:   st,
				WSURL:       roomWSURL(r.Token, st),
			})
		}

		log.Printf("[API] Room %s created (mode=%s seats=%d)", r.Token, r.Mode, len(resp))
		c.JSON(http.StatusCreated, gin.H{
			"room_token": r.Token,
			"room":       summary,
			"seats":      resp,
			"expires_at": r.ExpiresAt,
		})
	}
}

// GetRoomState returns the room summary, plus the live snapshot when the
// room is running on this instance.
func GetRoomState() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
			return
		}

		if r, err := game.Manager.GetRoomByToken(token); err == nil {
			c.JSON(http.StatusOK, gin.H{
				"room":  r.Summary(),
				"state": r.Snapshot(),
				"live":  true,
			})
			return
		}

		summary, err := game.Manager.LookupRoom(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room": summary, "live": false})
	}
}

// ListMatches returns finished matches, newest first
func ListMatches() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c, 20, 100)
		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
			return
		}
		matches, err := game.Manager.RecentMatches(limit, offset)
		if err != nil {
			log.Printf("[API] Failed to fetch matches: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch matches"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"matches": matches, "limit": limit, "offset": offset})
	}
}

// GetMatchMoves returns the board changes recorded for one match
func GetMatchMoves() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
			return
		}
		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
			return
		}
		moves, err := game.Manager.MatchMoves(id)
		if err != nil {
			log.Printf("[API] Failed to fetch moves for match %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch moves"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"match_id": id, "moves": moves})
	}
}
