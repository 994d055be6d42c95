package handlers

import (
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/pongtoe/internal/admin"
	"github.com/playmatatu/pongtoe/internal/game"
	"github.com/playmatatu/pongtoe/internal/models"
)

const (
	adminUserHeader  = "X-Admin-User"
	adminTokenHeader = "X-Admin-Token"
	adminUserKey     = "admin_user"
)

// AdminAuthMiddleware checks the X-Admin-User / X-Admin-Token pair against
// the bcrypt hash stored for the account.
func AdminAuthMiddleware(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := strings.TrimSpace(c.GetHeader(adminUserHeader))
		token := strings.TrimSpace(c.GetHeader(adminTokenHeader))
		if username == "" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin credentials required"})
			return
		}
		if db == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin store unavailable"})
			return
		}

		acc, err := admin.ValidateAdminUserAndToken(db, username, token)
		if err != nil {
			log.Printf("[ADMIN] Auth failed for %s: %v", username, err)
			admin.LogAdminAction(db, username, c.ClientIP(), c.FullPath(), "auth", nil, false)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		if !admin.IPAllowed(acc, c.ClientIP()) {
			log.Printf("[ADMIN] %s rejected from %s", username, c.ClientIP())
			admin.LogAdminAction(db, username, c.ClientIP(), c.FullPath(), "auth_ip", nil, false)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "IP not allowed"})
			return
		}

		c.Set(adminUserKey, acc.Username)
		c.Next()
	}
}

// AdminListRooms returns every live room, most recently active first.
// With ?source=history it lists persisted rooms instead.
func AdminListRooms(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUser := c.GetString(adminUserKey)

		if c.Query("source") == "history" {
			adminRoomHistory(c, db, adminUser)
			return
		}

		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
			return
		}
		rooms := game.Manager.ListRooms()
		if status := c.Query("status"); status != "" {
			filtered := rooms[:0]
			for _, r := range rooms {
				if strings.EqualFold(string(r.Status), status) {
					filtered = append(filtered, r)
				}
			}
			rooms = filtered
		}
		sort.Slice(rooms, func(i, j int) bool {
			return rooms[i].LastActivity.After(rooms[j].LastActivity)
		})

		admin.LogAdminAction(db, adminUser, c.ClientIP(), "/api/v1/admin/rooms", "list_rooms", map[string]interface{}{"count": len(rooms)}, true)
		c.JSON(http.StatusOK, gin.H{"rooms": rooms, "total": len(rooms)})
	}
}

func adminRoomHistory(c *gin.Context, db *sqlx.DB, adminUser string) {
	limit, offset := pagination(c, 50, 200)
	status := c.DefaultQuery("status", "")

	type roomRow struct {
		models.Room
		Matches    int `db:"matches" json:"matches"`
		TotalCount int `db:"total_count" json:"-"`
	}
	var rows []roomRow
	err := db.Select(&rows, `
		SELECT r.id, r.room_token, r.mode, r.status, r.left_player, r.right_player,
			r.created_at, r.started_at, r.closed_at,
			(SELECT COUNT(*) FROM matches m WHERE m.room_id = r.id) AS matches,
			COUNT(*) OVER() AS total_count
		FROM rooms r
		WHERE ($1 = '' OR r.status = $1)
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, strings.ToUpper(status), limit, offset)
	if err != nil {
		log.Printf("[ADMIN] Failed to fetch room history: %v", err)
		admin.LogAdminAction(db, adminUser, c.ClientIP(), "/api/v1/admin/rooms", "room_history", nil, false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	total := 0
	if len(rows) > 0 {
		total = rows[0].TotalCount
	}
	admin.LogAdminAction(db, adminUser, c.ClientIP(), "/api/v1/admin/rooms", "room_history", map[string]interface{}{"status": status}, true)
	c.JSON(http.StatusOK, gin.H{"rooms": rows, "total": total, "limit": limit, "offset": offset})
}

// AdminRestartRoom clears the board of a live room and starts the next match
func AdminRestartRoom(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUser := c.GetString(adminUserKey)
		token := c.Param("token")
		route := "/api/v1/admin/rooms/" + token + "/restart"

		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
			return
		}
		r, err := game.Manager.GetRoomByToken(token)
		if err != nil {
			admin.LogAdminAction(db, adminUser, c.ClientIP(), route, "restart_room", map[string]interface{}{"room": token}, false)
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		r.Restart()
		log.Printf("[ADMIN] %s restarted room %s", adminUser, token)
		admin.LogAdminAction(db, adminUser, c.ClientIP(), route, "restart_room", map[string]interface{}{"room": token}, true)
		c.JSON(http.StatusOK, gin.H{"ok": true, "room": r.Summary()})
	}
}

// AdminCloseRoom stops a live room and disconnects its players
func AdminCloseRoom(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminUser := c.GetString(adminUserKey)
		token := c.Param("token")
		route := "/api/v1/admin/rooms/" + token + "/close"

		var req struct {
			Reason string `json:"reason"`
		}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
		}
		details := map[string]interface{}{"room": token, "reason": req.Reason}

		if game.Manager == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
			return
		}
		if err := game.Manager.CloseRoom(token, "admin"); err != nil {
			admin.LogAdminAction(db, adminUser, c.ClientIP(), route, "close_room", details, false)
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}

		log.Printf("[ADMIN] %s closed room %s (%s)", adminUser, token, req.Reason)
		admin.LogAdminAction(db, adminUser, c.ClientIP(), route, "close_room", details, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
