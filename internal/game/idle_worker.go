package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	idleSetKey        = "room_idle"
	RoomEventsChannel = "room_events"
)

func lastActiveKey(token string) string {
	return "last_active:room:" + token
}

// IdleTracker pushes a room's idle deadline out.
type IdleTracker interface {
	Touch(ctx context.Context, token string)
}

// redisIdleTracker keeps deadlines in the room_idle sorted set.
type redisIdleTracker struct {
	rdb *redis.Client
	cfg *config.Config
}

func (t redisIdleTracker) Touch(ctx context.Context, token string) {
	seconds := t.cfg.RoomIdleSeconds
	if seconds <= 0 {
		return
	}
	now := time.Now().Unix()
	deadline := now + int64(seconds)
	pipe := t.rdb.Pipeline()
	pipe.Set(ctx, lastActiveKey(token), strconv.FormatInt(now, 10), time.Duration(seconds*2)*time.Second)
	pipe.ZAdd(ctx, idleSetKey, redis.Z{Score: float64(deadline), Member: token})
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[IDLE] Failed to touch room %s: %v", token, err)
	}
}

// TouchRoom records activity on a room: creation, a player connecting, or
// any inbound message.
func (gm *GameManager) TouchRoom(ctx context.Context, token string) {
	if gm == nil {
		return
	}
	gm.mu.RLock()
	idle := gm.idle
	gm.mu.RUnlock()
	if idle != nil {
		idle.Touch(ctx, token)
	}
}

// StartIdleWorker closes rooms whose players stopped sending input. Deadlines
// live in the room_idle sorted set; each closure is published on room_events.
func StartIdleWorker(ctx context.Context, rdb *redis.Client, cfg *config.Config) {
	if rdb == nil || cfg == nil {
		log.Println("[IDLE] Redis or config missing; idle worker not started")
		return
	}

	poll := cfg.IdleWorkerPollInterval
	if poll <= 0 {
		poll = 5
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(time.Duration(poll) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				sweepIdleRooms(ctx, rdb, cfg, time.Now())
			}
		}
	}()
}

func sweepIdleRooms(ctx context.Context, rdb *redis.Client, cfg *config.Config, now time.Time) {
	members, err := rdb.ZRangeByScore(ctx, idleSetKey, &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now.Unix())}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle rooms: %v", err)
		return
	}

	for _, token := range members {
		// Only the worker that removes the member handles it.
		if removed, _ := rdb.ZRem(ctx, idleSetKey, token).Result(); removed == 0 {
			continue
		}
		last, _ := rdb.Get(ctx, lastActiveKey(token)).Result()
		lastTs, _ := strconv.ParseInt(last, 10, 64)
		if lastTs > 0 && now.Unix()-lastTs < int64(cfg.RoomIdleSeconds) {
			continue
		}

		if Manager != nil {
			if err := Manager.CloseRoom(token, "idle"); err != nil {
				log.Printf("[IDLE] Room %s not live here: %v", token, err)
			}
		}

		payload := map[string]interface{}{
			"type":    "room_closed",
			"room":    token,
			"reason":  "idle",
			"message": "Room closed after inactivity",
		}
		b, _ := json.Marshal(payload)
		if n, err := rdb.Publish(ctx, RoomEventsChannel, b).Result(); err != nil {
			log.Printf("[IDLE] publish room_closed failed: room=%s err=%v", token, err)
		} else {
			log.Printf("[IDLE] published room_closed: room=%s subscribers=%d", token, n)
		}
	}
}
