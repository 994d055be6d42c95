package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client
type Client struct {
	conn      *websocket.Conn
	playerID  string
	roomToken string
	enc       Encoding
	send      chan []byte
}

// Hub maintains the set of active clients
type Hub struct {
	rooms      map[string]map[string]*Client // room token -> playerID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BroadcastToRoom sends a message to every client in a room, encoding it once
// per wire format in use.
func (h *Hub) BroadcastToRoom(roomToken string, message interface{}) {
	once := &encodedOnce{msg: message}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[roomToken] {
		data, err := once.get(client.enc)
		if err != nil {
			log.Printf("[WS] Error encoding message for room %s: %v", roomToken, err)
			return
		}
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Send buffer full for player %s in room %s, dropping message", client.playerID, roomToken)
		}
	}
}

// SendToPlayer sends a message to one player in a room
func (h *Hub) SendToPlayer(roomToken, playerID string, message interface{}) {
	h.mu.RLock()
	client, exists := h.rooms[roomToken][playerID]
	h.mu.RUnlock()
	if !exists {
		log.Printf("[WS] SendToPlayer no client for player %s in room %s", playerID, roomToken)
		return
	}
	h.sendTo(client, message)
}

// RoomSize reports how many clients are connected to a room.
func (h *Hub) RoomSize(roomToken string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomToken])
}

// dropRoom disconnects every client of a closed room.
func (h *Hub) dropRoom(roomToken string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.rooms[roomToken] {
		close(client.send)
		delete(h.rooms[roomToken], id)
	}
	delete(h.rooms, roomToken)
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed: connection replaced or room closed.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(c.enc.messageType(), message); err != nil {
				log.Printf("[WS] Write error for player %s: %v", c.playerID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for player %s: %v", c.playerID, err)
				return
			}
		}
	}
}

// sendTo encodes and queues a message without blocking the caller. Clients
// that are no longer registered are skipped; the hub closes send only while
// holding h.mu, so the channel is open while the read lock is held.
func (h *Hub) sendTo(c *Client, message interface{}) {
	data, err := encode(c.enc, message)
	if err != nil {
		log.Printf("[WS] Error encoding message for player %s: %v", c.playerID, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if cur, ok := h.rooms[c.roomToken][c.playerID]; !ok || cur != c {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Send buffer full for player %s, dropping message", c.playerID)
	}
}

// sendError sends an error message to the client
func (h *Hub) sendError(c *Client, message string) {
	h.sendTo(c, map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
