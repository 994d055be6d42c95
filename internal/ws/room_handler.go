package ws

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/pongtoe/internal/auth"
	"github.com/playmatatu/pongtoe/internal/game"
)

// GameHub is the single hub for all rooms.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// AttachManager routes the manager's frames and closures to connected clients.
func AttachManager(gm *game.GameManager) {
	gm.SetBroadcaster(BroadcastFrame)
	gm.SetClosedHandler(NotifyRoomClosed)
}

// HandleWebSocket upgrades a seated player. The seat token comes from ?st=
// and must name this room.
func HandleWebSocket(c *gin.Context) {
	roomToken := c.Param("token")
	seatToken := c.Query("st")
	if roomToken == "" || seatToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room token and st required"})
		return
	}

	secret := ""
	if wsConfig != nil {
		secret = wsConfig.JWTSecret
	}
	claims, err := auth.ParseSeatToken(secret, seatToken)
	if err != nil || claims.RoomToken != roomToken {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid seat token"})
		return
	}

	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game manager not ready"})
		return
	}
	r, err := game.Manager.GetRoomByToken(roomToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if r.SeatFor(claims.PlayerID) == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not seated in this room"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:      conn,
		playerID:  claims.PlayerID,
		roomToken: roomToken,
		enc:       ParseEncoding(c.Query("enc")),
		send:      make(chan []byte, 256),
	}

	GameHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runGameHub owns client registration and seat connection state.
func runGameHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.roomToken] == nil {
				h.rooms[client.roomToken] = make(map[string]*Client)
			}
			if old, exists := h.rooms[client.roomToken][client.playerID]; exists {
				log.Printf("[WS] Player %s reconnecting to %s - closing old connection", client.playerID, client.roomToken)
				if err := old.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"), time.Now().Add(5*time.Second)); err != nil {
					log.Printf("[WS] Error writing close control to old client %s: %v", old.playerID, err)
				}
				old.conn.Close()
				close(old.send)
			}
			h.rooms[client.roomToken][client.playerID] = client
			h.mu.Unlock()

			log.Printf("[WS] Player %s connected to room %s (enc=%s)", client.playerID, client.roomToken, client.enc)

			if game.Manager == nil {
				continue
			}
			r, err := game.Manager.GetRoomByToken(client.roomToken)
			if err != nil {
				h.sendError(client, "Room not found")
				continue
			}
			r.SetSeatConnected(client.playerID, true)
			game.Manager.TouchRoom(context.Background(), client.roomToken)

			h.sendTo(client, stateMessage(r))
			if r.GetStatus() == game.StatusWaiting {
				if r.SeatsReady() {
					game.Manager.StartRoom(r)
				} else {
					h.sendTo(client, map[string]interface{}{
						"type":    "waiting_for_opponent",
						"message": "Waiting for opponent...",
					})
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			room := h.rooms[client.roomToken]
			if cur, ok := room[client.playerID]; ok && cur == client {
				delete(room, client.playerID)
				if len(room) == 0 {
					delete(h.rooms, client.roomToken)
				}
				close(client.send)
				log.Printf("[WS] Player %s disconnected from room %s", client.playerID, client.roomToken)

				if game.Manager != nil {
					if r, err := game.Manager.GetRoomByToken(client.roomToken); err == nil {
						r.SetSeatConnected(client.playerID, false)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads player input until the connection drops.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for player %s: %v", c.playerID, err)
			}
			break
		}

		typ, data, err := decodeMessage(c.enc, message)
		if err != nil {
			GameHub.sendError(c, "Invalid message")
			continue
		}

		if game.Manager != nil {
			game.Manager.TouchRoom(context.Background(), c.roomToken)
		}
		c.handleMessage(typ, data)
	}
}

// handleMessage applies one inbound message to the client's room.
func (c *Client) handleMessage(typ string, data InputData) {
	if game.Manager == nil {
		GameHub.sendError(c, "Room not found")
		return
	}
	r, err := game.Manager.GetRoomByToken(c.roomToken)
	if err != nil {
		GameHub.sendError(c, "Room not found")
		return
	}

	if typ == "get_state" {
		GameHub.sendTo(c, stateMessage(r))
		return
	}

	in := game.Input{Type: typ, Side: data.Side, Dir: data.Dir, Y: data.Y, On: data.On}
	if err := r.ApplyInput(c.playerID, in); err != nil {
		switch {
		case errors.Is(err, game.ErrUnknownInput):
			GameHub.sendError(c, "Unknown message type")
		default:
			GameHub.sendError(c, err.Error())
		}
	}
}

func stateMessage(r *game.Room) map[string]interface{} {
	return map[string]interface{}{
		"type":   "state",
		"room":   r.Token,
		"status": r.GetStatus(),
		"state":  r.Snapshot(),
	}
}

// BroadcastFrame relays a room frame to its clients.
func BroadcastFrame(f game.RoomFrame) {
	GameHub.BroadcastToRoom(f.Room, map[string]interface{}{
		"type":  "frame",
		"frame": f,
	})
}

// NotifyRoomClosed tells a room's clients it closed and disconnects them.
func NotifyRoomClosed(roomToken, reason string) {
	GameHub.BroadcastToRoom(roomToken, roomClosedMessage(roomToken, reason, ""))
	GameHub.dropRoom(roomToken)
}

func roomClosedMessage(roomToken, reason, message string) map[string]interface{} {
	if message == "" {
		message = "Room closed"
	}
	return map[string]interface{}{
		"type":    "room_closed",
		"room":    roomToken,
		"reason":  reason,
		"message": message,
	}
}
