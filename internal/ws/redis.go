package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// roomEvent is a message published on the room_events channel.
type roomEvent struct {
	Type    string `json:"type"`
	Room    string `json:"room"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// StartRoomEventSubscriber relays room_events published by any instance to the
// clients connected here.
func StartRoomEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; room event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, game.RoomEventsChannel)
	ch := pubsub.Channel()
	go func() {
		defer pubsub.Close()
		log.Printf("[WS] %s subscriber started", game.RoomEventsChannel)
		for msg := range ch {
			handleRoomEvent([]byte(msg.Payload))
		}
	}()
}

func handleRoomEvent(payload []byte) {
	var ev roomEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		log.Printf("[WS] invalid room event payload: %v", err)
		return
	}
	if ev.Room == "" {
		log.Printf("[WS] room event %s without room", ev.Type)
		return
	}

	switch ev.Type {
	case "room_closed":
		if GameHub.RoomSize(ev.Room) == 0 {
			return
		}
		log.Printf("[WS] relaying room_closed for %s (reason=%s)", ev.Room, ev.Reason)
		GameHub.BroadcastToRoom(ev.Room, roomClosedMessage(ev.Room, ev.Reason, ev.Message))
		GameHub.dropRoom(ev.Room)
	default:
		log.Printf("[WS] unknown room event type: %s", ev.Type)
	}
}
