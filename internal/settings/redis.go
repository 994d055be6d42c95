package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/playmatatu/pongtoe/internal/game"
	"github.com/redis/go-redis/v9"
)

const opTimeout = 2 * time.Second

// RedisStore keeps one scope's settings as JSON under settings:<scope>.
type RedisStore struct {
	rdb   *redis.Client
	scope string
}

func NewRedisStore(rdb *redis.Client, scope string) *RedisStore {
	return &RedisStore{rdb: rdb, scope: scope}
}

// Factory returns a game.SettingsFactory backed by rdb, or nil without Redis.
func Factory(rdb *redis.Client) game.SettingsFactory {
	if rdb == nil {
		return nil
	}
	return func(scope string) game.SettingsStore {
		return NewRedisStore(rdb, scope)
	}
}

func Key(scope string) string {
	return "settings:" + scope
}

func (s *RedisStore) Load() (game.Settings, bool) {
	if s.rdb == nil {
		return game.Settings{}, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := s.rdb.Get(ctx, Key(s.scope)).Bytes()
	if err == redis.Nil {
		return game.Settings{}, false
	}
	if err != nil {
		log.Printf("[SETTINGS] Failed to load %s: %v", s.scope, err)
		return game.Settings{}, false
	}
	st, err := decode(raw)
	if err != nil {
		log.Printf("[SETTINGS] Corrupt settings for %s: %v", s.scope, err)
		return game.Settings{}, false
	}
	return st, true
}

func (s *RedisStore) Save(st game.Settings) {
	if s.rdb == nil {
		return
	}
	b, err := json.Marshal(st)
	if err != nil {
		log.Printf("[SETTINGS] Failed to encode %s: %v", s.scope, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := s.rdb.Set(ctx, Key(s.scope), b, 0).Err(); err != nil {
		log.Printf("[SETTINGS] Failed to save %s: %v", s.scope, err)
	}
}

func decode(raw []byte) (game.Settings, error) {
	var st game.Settings
	if err := json.Unmarshal(raw, &st); err != nil {
		return game.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return st, nil
}
