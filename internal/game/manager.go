package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/pongtoe/internal/config"
	"github.com/playmatatu/pongtoe/internal/models"
	"github.com/redis/go-redis/v9"
)

var ErrRoomNotFound = errors.New("room not found")

// Broadcaster receives every frame a room produces.
type Broadcaster func(f RoomFrame)

// ClosedHandler is told when a room closes and why.
type ClosedHandler func(token, reason string)

// SettingsFactory returns the settings store for a scope such as "player:<id>".
type SettingsFactory func(scope string) SettingsStore

// GameManager owns all live rooms and their tick loops.
type GameManager struct {
	rooms     map[string]*Room  // keyed by room ID
	byToken   map[string]string // room token -> room ID
	rdb       *redis.Client
	db        *sqlx.DB
	config    *config.Config
	engine    Config
	broadcast Broadcaster
	onClosed  ClosedHandler
	settings  SettingsFactory
	idle      IdleTracker
	mu        sync.RWMutex
}

// RoomOptions describes a room to create.
type RoomOptions struct {
	Mode         RoomMode
	PlayerID     string
	PlayerName   string
	OpponentID   string
	OpponentName string
}

var (
	// Global game manager instance
	Manager *GameManager
)

// InitializeManager builds the global manager and starts its background checks.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(db, rdb, cfg)
	go Manager.StartExpiryChecker(context.Background())
}

// NewGameManager creates a manager. db and rdb may be nil; history and caching
// are then skipped.
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *GameManager {
	if cfg == nil {
		cfg = &config.Config{TickRate: FrameRate, BroadcastEvery: 1, RoomExpiryMinutes: 10}
	}
	gm := &GameManager{
		rooms:   make(map[string]*Room),
		byToken: make(map[string]string),
		rdb:     rdb,
		db:      db,
		config:  cfg,
		engine:  EngineConfig(cfg),
	}
	if rdb != nil {
		gm.idle = redisIdleTracker{rdb: rdb, cfg: cfg}
	}
	return gm
}

// EngineConfig overlays the environment tunables on DefaultConfig.
func EngineConfig(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if cfg.MaxTokens > 0 {
		c.MaxTokens = cfg.MaxTokens
	}
	if cfg.SpawnIntervalMs > 0 {
		c.SpawnInterval = time.Duration(cfg.SpawnIntervalMs) * time.Millisecond
	}
	if cfg.CommitDelayMs > 0 {
		c.CommitDelay = time.Duration(cfg.CommitDelayMs) * time.Millisecond
	}
	return c
}

func (gm *GameManager) GetConfig() *config.Config { return gm.config }

func (gm *GameManager) Engine() Config {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.engine
}

// ReloadEngine rebuilds the engine tunables from the service config. Rooms
// created afterwards use the new values; live rooms keep theirs.
func (gm *GameManager) ReloadEngine() Config {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.engine = EngineConfig(gm.config)
	log.Printf("[ROOM] Engine config reloaded (max_tokens=%d spawn=%s commit=%s)",
		gm.engine.MaxTokens, gm.engine.SpawnInterval, gm.engine.CommitDelay)
	return gm.engine
}

func (gm *GameManager) SetBroadcaster(b Broadcaster) {
	gm.mu.Lock()
	gm.broadcast = b
	gm.mu.Unlock()
}

func (gm *GameManager) SetClosedHandler(h ClosedHandler) {
	gm.mu.Lock()
	gm.onClosed = h
	gm.mu.Unlock()
}

func (gm *GameManager) SetIdleTracker(t IdleTracker) {
	gm.mu.Lock()
	gm.idle = t
	gm.mu.Unlock()
}

func (gm *GameManager) SetSettingsFactory(f SettingsFactory) {
	gm.mu.Lock()
	gm.settings = f
	gm.mu.Unlock()
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateRoomID() string {
	return "room_" + generateToken(8)
}

// CreateRoom registers a new waiting room. Its history writer starts now; the
// tick loop starts once the seats are filled.
func (gm *GameManager) CreateRoom(opts RoomOptions) (*Room, error) {
	if opts.Mode == "" {
		opts.Mode = ModeAI
	}
	if !opts.Mode.Valid() {
		return nil, ErrNotAllowed
	}

	left := &Seat{ID: opts.PlayerID, DisplayName: opts.PlayerName}
	if left.ID == "" {
		left.ID = "p_" + generateToken(4)
	}
	var right *Seat
	if opts.Mode == ModeVersus {
		right = &Seat{ID: opts.OpponentID, DisplayName: opts.OpponentName}
		if right.ID == "" || right.ID == left.ID {
			right.ID = "p_" + generateToken(4)
		}
	}

	expiry := time.Duration(gm.config.RoomExpiryMinutes) * time.Minute
	gm.mu.RLock()
	factory := gm.settings
	engine := gm.engine
	gm.mu.RUnlock()

	r := NewRoom(generateRoomID(), generateToken(16), opts.Mode, left, right, engine, NewRand(), expiry)
	if factory != nil {
		scope := "room:" + r.Token
		if opts.PlayerID != "" {
			scope = "player:" + opts.PlayerID
		}
		r.AttachSettings(factory(scope))
	}

	r.gm = gm
	r.SessionID = gm.insertRoomRow(r)
	go r.runJobs()

	gm.mu.Lock()
	gm.rooms[r.ID] = r
	gm.byToken[r.Token] = r.ID
	gm.mu.Unlock()

	r.mu.Lock()
	r.enqueue(r.cacheJobLocked())
	r.mu.Unlock()
	gm.TouchRoom(context.Background(), r.Token)

	log.Printf("[ROOM] Created %s (token=%s mode=%s session=%d)", r.ID, r.Token, r.Mode, r.SessionID)
	return r, nil
}

func (gm *GameManager) GetRoom(id string) (*Room, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	if r, ok := gm.rooms[id]; ok {
		return r, nil
	}
	return nil, ErrRoomNotFound
}

func (gm *GameManager) GetRoomByToken(token string) (*Room, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	if id, ok := gm.byToken[token]; ok {
		if r, ok := gm.rooms[id]; ok {
			return r, nil
		}
	}
	return nil, ErrRoomNotFound
}

// LookupRoom returns a live summary or, failing that, the last cached one.
func (gm *GameManager) LookupRoom(token string) (*RoomSummary, error) {
	if r, err := gm.GetRoomByToken(token); err == nil {
		s := r.Summary()
		return &s, nil
	}
	return gm.loadCachedRoom(token)
}

// ListRooms returns summaries of every live room.
func (gm *GameManager) ListRooms() []RoomSummary {
	gm.mu.RLock()
	rooms := make([]*Room, 0, len(gm.rooms))
	for _, r := range gm.rooms {
		rooms = append(rooms, r)
	}
	gm.mu.RUnlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Summary())
	}
	return out
}

func (gm *GameManager) ActiveRoomCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.rooms)
}

// StartRoom puts a waiting room into play and launches its tick loop.
func (gm *GameManager) StartRoom(r *Room) bool {
	if !r.Start() {
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.stop = cancel
	r.mu.Unlock()
	go gm.runRoom(ctx, r)
	log.Printf("[ROOM] Started %s (mode=%s)", r.Token, r.Mode)
	return true
}

func (gm *GameManager) runRoom(ctx context.Context, r *Room) {
	rate := gm.config.TickRate
	if rate <= 0 {
		rate = FrameRate
	}
	every := gm.config.BroadcastEvery
	if every <= 0 {
		every = 1
	}
	dt := time.Second / time.Duration(rate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(dt)
			n++
			if n%every != 0 {
				continue
			}
			f := r.Frame()
			gm.mu.RLock()
			b := gm.broadcast
			gm.mu.RUnlock()
			if b != nil {
				b(f)
			}
		}
	}
}

// CloseRoom stops a room and forgets it.
func (gm *GameManager) CloseRoom(token, reason string) error {
	gm.mu.Lock()
	id, ok := gm.byToken[token]
	var r *Room
	if ok {
		r = gm.rooms[id]
		delete(gm.rooms, id)
		delete(gm.byToken, token)
	}
	h := gm.onClosed
	gm.mu.Unlock()
	if r == nil {
		return ErrRoomNotFound
	}

	r.close()

	if gm.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		gm.rdb.ZRem(ctx, idleSetKey, token)
		cancel()
	}

	log.Printf("[ROOM] Closed %s (%s)", token, reason)
	if h != nil {
		h(token, reason)
	}
	return nil
}

// StartExpiryChecker closes rooms that were never filled in time.
func (gm *GameManager) StartExpiryChecker(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.checkExpiredRooms(time.Now())
		}
	}
}

func (gm *GameManager) checkExpiredRooms(now time.Time) int {
	gm.mu.RLock()
	var expired []string
	for _, r := range gm.rooms {
		r.mu.RLock()
		if r.Status == StatusWaiting && now.After(r.ExpiresAt) {
			expired = append(expired, r.Token)
		}
		r.mu.RUnlock()
	}
	gm.mu.RUnlock()

	for _, token := range expired {
		if err := gm.CloseRoom(token, "expired"); err == nil {
			log.Printf("[EXPIRY] Room %s expired before all seats connected", token)
		}
	}
	return len(expired)
}

// RecentMatches lists finished matches, newest first.
func (gm *GameManager) RecentMatches(limit, offset int) ([]models.Match, error) {
	if gm.db == nil {
		return []models.Match{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var matches []models.Match
	err := gm.db.Select(&matches, `
		SELECT m.id, m.room_id, r.room_token, m.match_number, m.result,
		       COALESCE(m.final_board, '[]'::jsonb) AS final_board, m.started_at, m.completed_at
		FROM matches m
		JOIN rooms r ON r.id = m.room_id
		WHERE m.completed_at IS NOT NULL
		ORDER BY m.completed_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// MatchMoves lists the board changes of one match.
func (gm *GameManager) MatchMoves(matchID int) ([]models.MatchMove, error) {
	if gm.db == nil {
		return []models.MatchMove{}, nil
	}
	var moves []models.MatchMove
	err := gm.db.Select(&moves, `
		SELECT id, match_id, move_number, move_type, cell, mark, created_at
		FROM match_moves WHERE match_id = $1 ORDER BY move_number
	`, matchID)
	return moves, err
}
