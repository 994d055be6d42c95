package game

import (
	"errors"
	"log"
	"sync"
	"time"
)

var (
	ErrNotSeated    = errors.New("player is not seated in this room")
	ErrRoomClosed   = errors.New("room is closed")
	ErrNotAllowed   = errors.New("action not allowed in this room")
	ErrUnknownInput = errors.New("unknown input type")
)

// Seat is a player slot bound to one paddle.
type Seat struct {
	ID             string     `json:"id"`
	Side           string     `json:"side"`
	DisplayName    string     `json:"display_name,omitempty"`
	Connected      bool       `json:"connected"`
	DisconnectedAt *time.Time `json:"-"`
}

// Input is a player command applied before the next step.
type Input struct {
	Type string  `json:"type" msgpack:"type"`
	Side string  `json:"side,omitempty" msgpack:"side,omitempty"`
	Dir  int     `json:"dir,omitempty" msgpack:"dir,omitempty"`
	Y    float64 `json:"y,omitempty" msgpack:"y,omitempty"`
	On   *bool   `json:"on,omitempty" msgpack:"on,omitempty"`
}

// Notice is an overlay message relayed to clients.
type Notice struct {
	Key        string `json:"key" msgpack:"key"`
	Text       string `json:"text" msgpack:"text"`
	DurationMs int64  `json:"duration_ms" msgpack:"duration_ms"`
}

// RoomFrame is what a room sends to its clients on each broadcast tick.
type RoomFrame struct {
	Room    string     `json:"room" msgpack:"room"`
	Status  GameStatus `json:"status" msgpack:"status"`
	Seq     int64      `json:"seq" msgpack:"seq"`
	State   Snapshot   `json:"state" msgpack:"state"`
	Cues    []Cue      `json:"cues,omitempty" msgpack:"cues,omitempty"`
	Notices []Notice   `json:"notices,omitempty" msgpack:"notices,omitempty"`
	Events  []Event    `json:"events,omitempty" msgpack:"events,omitempty"`
}

// Room hosts one World for up to two seated players.
type Room struct {
	ID           string     `json:"id"`
	Token        string     `json:"token"`
	Mode         RoomMode   `json:"mode"`
	Left         *Seat      `json:"left"`
	Right        *Seat      `json:"right,omitempty"`
	Status       GameStatus `json:"status"`
	MatchNumber  int        `json:"match_number"`
	ExpiresAt    time.Time  `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	LastActivity time.Time  `json:"last_activity"`
	SessionID    int        `json:"session_id,omitempty"`

	world   *World
	cues    []Cue
	notices []Notice
	events  []Event
	seq     int64

	gm     *GameManager
	jobs   chan func()
	stop   func()
	closed bool
	mu     sync.RWMutex
}

// NewRoom builds a waiting room. Versus rooms get a right seat; AI rooms
// leave the right paddle to the computer.
func NewRoom(id, token string, mode RoomMode, left, right *Seat, cfg Config, rng Rand, expiry time.Duration) *Room {
	now := time.Now()
	r := &Room{
		ID:           id,
		Token:        token,
		Mode:         mode,
		Left:         left,
		Right:        right,
		Status:       StatusWaiting,
		MatchNumber:  1,
		ExpiresAt:    now.Add(expiry),
		CreatedAt:    now,
		LastActivity: now,
		jobs:         make(chan func(), 256),
	}
	if r.Left != nil {
		r.Left.Side = SideLeft.String()
	}
	if r.Right != nil {
		r.Right.Side = SideRight.String()
	}
	r.world = NewWorld(cfg, rng)
	r.world.SetAudio(r)
	r.world.SetOverlay(r)
	r.world.AIEnabled = mode == ModeAI
	return r
}

// Play buffers a cue for the next frame. Called from Step with r.mu held.
func (r *Room) Play(c Cue) {
	r.cues = append(r.cues, c)
}

// Notify buffers an overlay notice for the next frame. Called with r.mu held.
func (r *Room) Notify(key, text string, d time.Duration) {
	r.notices = append(r.notices, Notice{Key: key, Text: text, DurationMs: d.Milliseconds()})
}

// AttachSettings seeds the world from a store. AI rooms take the stored AI
// flag; versus rooms keep both paddles human. Saves go through the room's
// writer goroutine.
func (r *Room) AttachSettings(s SettingsStore) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s == nil {
		r.world.AttachSettings(nil)
	} else {
		r.world.AttachSettings(deferredSettings{room: r, store: s})
	}
	if r.Mode == ModeVersus {
		r.world.AIEnabled = false
	}
}

// deferredSettings hands saves to the room's job queue so a slow store never
// holds up a step.
type deferredSettings struct {
	room  *Room
	store SettingsStore
}

func (d deferredSettings) Load() (Settings, bool) { return d.store.Load() }

// Save runs inside Step with room.mu held.
func (d deferredSettings) Save(s Settings) {
	store := d.store
	d.room.enqueue(func() { store.Save(s) })
}

func (r *Room) seatSide(playerID string) (Side, bool) {
	if r.Left != nil && r.Left.ID == playerID {
		return SideLeft, true
	}
	if r.Right != nil && r.Right.ID == playerID {
		return SideRight, true
	}
	return SideLeft, false
}

// SeatFor returns the seat held by playerID.
func (r *Room) SeatFor(playerID string) *Seat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	side, ok := r.seatSide(playerID)
	if !ok {
		return nil
	}
	if side == SideLeft {
		return r.Left
	}
	return r.Right
}

// ApplyInput stages a player command. In AI rooms the single player may also
// drive the right paddle once the AI is off.
func (r *Room) ApplyInput(playerID string, in Input) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status == StatusClosed {
		return ErrRoomClosed
	}
	side, ok := r.seatSide(playerID)
	if !ok {
		return ErrNotSeated
	}
	r.LastActivity = time.Now()

	target := side
	if r.Mode == ModeAI && in.Side != "" {
		if s, ok := ParseSide(in.Side); ok {
			target = s
		}
	}

	switch in.Type {
	case "move":
		r.world.SetIntent(target, in.Dir)
	case "pointer":
		r.world.SetPointer(target, in.Y)
	case "pause":
		running := r.world.TogglePause()
		log.Printf("[ROOM] %s paused=%v by %s", r.Token, !running, playerID)
	case "restart":
		r.restartLocked()
	case "spawn":
		r.world.SpawnManual()
	case "toggle_ai":
		if r.Mode != ModeAI {
			return ErrNotAllowed
		}
		if in.On != nil {
			r.world.SetAI(*in.On)
		} else {
			r.world.ToggleAI()
		}
	default:
		return ErrUnknownInput
	}
	return nil
}

// Restart begins a new match in the room.
func (r *Room) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restartLocked()
}

func (r *Room) restartLocked() {
	if r.Status == StatusClosed {
		return
	}
	ev := r.world.Restart()
	r.events = append(r.events, ev...)
	r.handleEventsLocked(ev)
}

// Tick advances the world. Waiting and closed rooms do not move.
func (r *Room) Tick(dt time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusInProgress && r.Status != StatusCompleted {
		return
	}
	ev := r.world.Step(dt)
	if len(ev) == 0 {
		return
	}
	r.events = append(r.events, ev...)
	r.handleEventsLocked(ev)
}

// handleEventsLocked updates room status and queues history writes.
func (r *Room) handleEventsLocked(ev []Event) {
	for _, e := range ev {
		switch e.Type {
		case EventPlace, EventEvict, EventRemoveMark:
			r.enqueue(recordMoveJob(r.gm, r.SessionID, r.MatchNumber, e))
		case EventGameOver:
			now := time.Now()
			r.Status = StatusCompleted
			r.CompletedAt = &now
			log.Printf("[ROOM] %s match %d over: result=%s tally=%+v", r.Token, r.MatchNumber, e.Result, r.world.Tally)
			r.enqueue(recordResultJob(r.gm, r.SessionID, r.MatchNumber, e.Result, r.world.Board.Marks()))
			r.enqueue(r.cacheJobLocked())
		case EventReset:
			if r.Status == StatusWaiting {
				continue
			}
			r.MatchNumber++
			r.Status = StatusInProgress
			r.CompletedAt = nil
			r.enqueue(startMatchJob(r.gm, r.SessionID, r.MatchNumber))
			r.enqueue(r.cacheJobLocked())
		}
	}
}

func (r *Room) enqueue(job func()) {
	if job == nil || r.closed {
		return
	}
	select {
	case r.jobs <- job:
	default:
		log.Printf("[ROOM] %s persistence queue full, dropping write", r.Token)
	}
}

// runJobs drains history writes in order until the room closes.
func (r *Room) runJobs() {
	for job := range r.jobs {
		job()
	}
}

// Frame drains buffered cues, notices and events into a frame.
func (r *Room) Frame() RoomFrame {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	f := RoomFrame{
		Room:    r.Token,
		Status:  r.Status,
		Seq:     r.seq,
		State:   r.world.Snapshot(),
		Cues:    r.cues,
		Notices: r.notices,
		Events:  r.events,
	}
	r.cues, r.notices, r.events = nil, nil, nil
	return f
}

// Snapshot returns the world state without draining buffers.
func (r *Room) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.world.Snapshot()
}

// Start moves a waiting room into play.
func (r *Room) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Status != StatusWaiting {
		return false
	}
	now := time.Now()
	r.Status = StatusInProgress
	r.StartedAt = &now
	r.LastActivity = now
	r.enqueue(startMatchJob(r.gm, r.SessionID, r.MatchNumber))
	r.enqueue(markRoomStartedJob(r.gm, r.SessionID, now))
	return true
}

// SetSeatConnected records a player's connection state.
func (r *Room) SetSeatConnected(playerID string, connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	side, ok := r.seatSide(playerID)
	if !ok {
		return
	}
	seat := r.Left
	if side == SideRight {
		seat = r.Right
	}
	seat.Connected = connected
	if connected {
		seat.DisconnectedAt = nil
		r.LastActivity = time.Now()
	} else {
		now := time.Now()
		seat.DisconnectedAt = &now
	}
}

// SeatsReady reports whether every human seat is connected.
func (r *Room) SeatsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Left == nil || !r.Left.Connected {
		return false
	}
	if r.Mode == ModeVersus && (r.Right == nil || !r.Right.Connected) {
		return false
	}
	return true
}

// GetStatus returns the room status.
func (r *Room) GetStatus() GameStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// close marks the room closed and stops its loop and writer.
func (r *Room) close() bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	now := time.Now()
	r.Status = StatusClosed
	if r.CompletedAt == nil {
		r.CompletedAt = &now
	}
	r.enqueue(markRoomClosedJob(r.gm, r.SessionID, now))
	r.enqueue(r.cacheJobLocked())
	r.closed = true
	stop := r.stop
	r.stop = nil
	close(r.jobs)
	r.mu.Unlock()

	if stop != nil {
		stop()
	}
	return true
}

// RoomSummary is the listing view of a room.
type RoomSummary struct {
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	Mode         RoomMode       `json:"mode"`
	Status       GameStatus     `json:"status"`
	MatchNumber  int            `json:"match_number"`
	Left         Seat           `json:"left"`
	Right        *Seat          `json:"right,omitempty"`
	AIEnabled    bool           `json:"ai_enabled"`
	Tokens       int            `json:"tokens"`
	Marks        [NumCells]Mark `json:"marks"`
	Result       Result         `json:"result,omitempty"`
	Tally        Tally          `json:"tally"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
}

func (r *Room) Summary() RoomSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summaryLocked()
}

func (r *Room) summaryLocked() RoomSummary {
	s := RoomSummary{
		ID:           r.ID,
		Token:        r.Token,
		Mode:         r.Mode,
		Status:       r.Status,
		MatchNumber:  r.MatchNumber,
		AIEnabled:    r.world.AIEnabled,
		Tokens:       len(r.world.Tokens),
		Marks:        r.world.Board.Marks(),
		Result:       r.world.Result,
		Tally:        r.world.Tally,
		CreatedAt:    r.CreatedAt,
		LastActivity: r.LastActivity,
	}
	if r.Left != nil {
		s.Left = *r.Left
	}
	if r.Right != nil {
		right := *r.Right
		s.Right = &right
	}
	return s
}
